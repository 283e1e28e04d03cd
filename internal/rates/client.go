package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/jrv/cambio/internal/config"
)

// Client performs the two startup reads against the exchange-rate API.
type Client struct {
	baseURL        string
	currenciesPath string
	ratesPath      string
	httpClient     *http.Client
	logger         *logrus.Logger

	group singleflight.Group
}

// NewClient builds a Client from the API section of the config.
func NewClient(cfg config.APIConfig, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		currenciesPath: cfg.CurrenciesPath,
		ratesPath:      cfg.RatesPath,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

// LoadCurrencies retrieves the supported currency set. The remote returns a
// code -> display name mapping; callers mostly care about the keys.
func (c *Client) LoadCurrencies(ctx context.Context) (map[string]string, error) {
	var currencies map[string]string
	if err := c.get(ctx, c.currenciesPath, &currencies); err != nil {
		return nil, err
	}
	c.logger.Debugf("loaded %d currencies", len(currencies))
	return currencies, nil
}

// latestResponse matches the frankfurter-style latest endpoint. The generic
// base/rates pair is what every provider in this space returns.
type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// LoadRates retrieves the latest rate table, expressed relative to the
// provider's base currency. The base itself is entered into the table at 1
// since providers omit it.
func (c *Client) LoadRates(ctx context.Context) (Snapshot, error) {
	var resp latestResponse
	if err := c.get(ctx, c.ratesPath, &resp); err != nil {
		return Snapshot{}, err
	}
	if resp.Base == "" {
		return Snapshot{}, &FetchError{Endpoint: c.ratesPath, Cause: fmt.Errorf("response missing base currency")}
	}

	table := make(Table, len(resp.Rates)+1)
	for code, rate := range resp.Rates {
		if rate <= 0 {
			c.logger.Warnf("dropping non-positive rate %s=%v", code, rate)
			continue
		}
		table[code] = rate
	}
	if _, ok := table[resp.Base]; !ok {
		table[resp.Base] = 1
	}
	c.logger.Debugf("loaded %d rates, base %s, date %s", len(table), resp.Base, resp.Date)
	return Snapshot{Base: resp.Base, Rates: table}, nil
}

// LoadAll performs both reads in order: currencies first, then rates. It
// returns either a complete Bootstrap or an error, never a partial one.
// Concurrent calls (startup racing a manual retry) collapse into a single
// remote round trip.
func (c *Client) LoadAll(ctx context.Context) (Bootstrap, error) {
	result, err, _ := c.group.Do("bootstrap", func() (interface{}, error) {
		currencies, err := c.LoadCurrencies(ctx)
		if err != nil {
			return nil, err
		}
		snap, err := c.LoadRates(ctx)
		if err != nil {
			return nil, err
		}
		return Bootstrap{Currencies: currencies, Base: snap.Base, Rates: snap.Rates}, nil
	})
	if err != nil {
		return Bootstrap{}, err
	}
	return result.(Bootstrap), nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Endpoint: path, Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("request %s failed: %v", url, err)
		return &FetchError{Endpoint: path, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnf("request %s returned status %d", url, resp.StatusCode)
		return &FetchError{Endpoint: path, Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Endpoint: path, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
