package rates

import "fmt"

// Table maps a currency code to its rate relative to the base currency.
// The base currency itself maps to 1.
type Table map[string]float64

// Snapshot is the result of one latest-rates read.
type Snapshot struct {
	Base  string
	Rates Table
}

// Bootstrap bundles both startup reads. A Bootstrap either carries the full
// currency list and rate table or nothing; partial fetches never escape the
// client.
type Bootstrap struct {
	Currencies map[string]string // code -> display name
	Base       string
	Rates      Table
}

// FetchError reports a failed remote read. Every fetch failure collapses into
// this one kind; the cause stays attached for the log file.
type FetchError struct {
	Endpoint string
	Cause    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }
