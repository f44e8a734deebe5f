package coingecko

import "fmt"

// Operation names carried by FetchError.
const (
	OpListMarkets = "listMarkets"
	OpSearch      = "search"
	OpDetails     = "getDetails"
	OpChart       = "getChartSeries"
)

// FetchError reports a failed request to the provider: a transport error,
// a non-2xx status or an undecodable body.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("coingecko %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("coingecko %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
