// Package crossref compares CoinGecko prices with a second quote source.
package crossref

import (
	"context"
	"fmt"
	"strings"
	"time"

	yfgo "github.com/komsit37/yf-go"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/format"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// Quote is a reference price for one symbol.
type Quote struct {
	Symbol string
	Name   string
	Price  float64
}

// Quoter fetches a reference quote for a Yahoo style symbol.
type Quoter interface {
	Quote(ctx context.Context, sym string) (Quote, error)
}

// Symbol maps a coin to its Yahoo Finance USD pair, e.g. BTC-USD.
func Symbol(c types.Cryptocurrency) string {
	return strings.ToUpper(strings.TrimSpace(c.Symbol)) + "-USD"
}

// YahooQuoter implements Quoter using yf-go.
type YahooQuoter struct {
	client  *yfgo.Client
	timeout time.Duration
}

func NewYahooQuoter(timeout time.Duration) *YahooQuoter {
	return &YahooQuoter{client: yfgo.NewClient(), timeout: timeout}
}

func (y *YahooQuoter) Quote(ctx context.Context, sym string) (Quote, error) {
	if sym == "" {
		return Quote{}, fmt.Errorf("crossref: empty symbol")
	}
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}
	res, err := y.client.QuoteSummaryTyped(ctx, sym, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return Quote{}, fmt.Errorf("crossref %s: %w", sym, err)
	}
	if res.Price == nil || res.Price.RegularMarketPrice.Raw == nil {
		return Quote{}, fmt.Errorf("crossref %s: no price", sym)
	}
	q := Quote{Symbol: sym, Price: *res.Price.RegularMarketPrice.Raw}
	if res.Price.ShortName != "" {
		q.Name = res.Price.ShortName
	} else {
		q.Name = res.Price.LongName
	}
	return q, nil
}

// Comparison is the reference quote for a coin next to its CoinGecko price.
type Comparison struct {
	Symbol    string
	Reference float64
	Quote     Quote
	Err       error
}

// Compare fetches the reference quote for c. Failures are carried in Err.
func Compare(ctx context.Context, q Quoter, c types.Cryptocurrency) Comparison {
	sym := Symbol(c)
	cmp := Comparison{Symbol: sym, Reference: c.CurrentPrice}
	cmp.Quote, cmp.Err = q.Quote(ctx, sym)
	return cmp
}

// Deviation is the quote's distance from the reference in percent.
func (c Comparison) Deviation() (float64, bool) {
	if c.Err != nil || c.Reference == 0 {
		return 0, false
	}
	return (c.Quote.Price - c.Reference) / c.Reference * 100, true
}

// Row renders the comparison as a label/value pair for the details table.
func (c Comparison) Row() [2]string {
	label := "Yahoo " + c.Symbol
	if c.Err != nil {
		return [2]string{label, "n/a"}
	}
	v := format.FormatPrice(c.Quote.Price)
	if dev, ok := c.Deviation(); ok {
		v += " (" + format.FormatPercentage(dev) + ")"
	}
	return [2]string{label, v}
}
