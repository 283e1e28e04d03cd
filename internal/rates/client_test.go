package rates

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jrv/cambio/internal/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.APIConfig{
		BaseURL:        srv.URL,
		CurrenciesPath: "/currencies",
		RatesPath:      "/latest",
		TimeoutSeconds: 2,
	}, testLogger())
}

func okHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/currencies", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"EUR":"Euro","USD":"United States Dollar","JPY":"Japanese Yen"}`))
	})
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2026-08-25","rates":{"USD":1.1,"JPY":160}}`))
	})
	return mux
}

func TestLoadAll(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := newTestClient(t, okHandler())
	boot, err := client.LoadAll(ctx)
	require.NoError(t, err)

	require.Len(t, boot.Currencies, 3)
	require.Equal(t, "Euro", boot.Currencies["EUR"])
	require.Equal(t, "EUR", boot.Base)
	require.Equal(t, 1.1, boot.Rates["USD"])
	require.Equal(t, 160.0, boot.Rates["JPY"])
	require.Equal(t, 1.0, boot.Rates["EUR"], "base is entered into the table at 1")
}

func TestLoadAllCollapsesConcurrentFetches(t *testing.T) {
	t.Parallel()

	var currencyCalls, rateCalls atomic.Int32
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/currencies", func(w http.ResponseWriter, r *http.Request) {
		currencyCalls.Add(1)
		<-release // hold the first read open until every caller has joined
		_, _ = w.Write([]byte(`{"EUR":"Euro","USD":"United States Dollar"}`))
	})
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		rateCalls.Add(1)
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.1}}`))
	})

	client := newTestClient(t, mux)
	ctx := context.Background()

	const callers = 4
	var wg sync.WaitGroup
	boots := make([]Bootstrap, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			boots[i], errs[i] = client.LoadAll(ctx)
		}(i)
	}

	// give the stragglers time to reach the in-flight fetch, then let it finish
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), currencyCalls.Load(), "repeated fetches must collapse into one round trip")
	require.Equal(t, int32(1), rateCalls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "EUR", boots[i].Base)
		require.Equal(t, 1.1, boots[i].Rates["USD"])
	}
}

func TestLoadCurrenciesServerError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.LoadCurrencies(ctx)
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, "/currencies", ferr.Endpoint)
}

func TestLoadAllNoPartialState(t *testing.T) {
	t.Parallel()

	// currencies succeed, latest rates fail: the caller must see only an error
	mux := http.NewServeMux()
	mux.HandleFunc("/currencies", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"EUR":"Euro"}`))
	})
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusBadGateway)
	})

	client := newTestClient(t, mux)
	boot, err := client.LoadAll(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	require.Empty(t, boot.Currencies)
	require.Empty(t, boot.Rates)
	require.Empty(t, boot.Base)
}

func TestLoadRatesMalformedBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":`))
	}))

	_, err := client.LoadRates(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
}

func TestLoadRatesMissingBase(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"USD":1.1}}`))
	}))

	_, err := client.LoadRates(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
}

func TestLoadRatesDropsNonPositive(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.1,"BAD":-3,"ZRO":0}}`))
	}))

	snap, err := client.LoadRates(context.Background())
	require.NoError(t, err)
	require.Equal(t, Table{"USD": 1.1, "EUR": 1}, snap.Rates)
}

func TestLoadRatesKeepsProviderBaseEntry(t *testing.T) {
	t.Parallel()

	// some providers already include the base at 1; it must not be clobbered
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"EUR":1,"USD":1.1}}`))
	}))

	snap, err := client.LoadRates(context.Background())
	require.NoError(t, err)
	require.Equal(t, "EUR", snap.Base)
	require.Equal(t, 1.0, snap.Rates["EUR"])
}
