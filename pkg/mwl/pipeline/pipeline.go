package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/filter"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/query"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/render"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// IDSource supplies the watched ids. *watchlist.Store satisfies it.
type IDSource interface {
	IDs() []string
}

// SortKey orders dashboard rows. Every key sorts descending.
type SortKey string

const (
	SortMarketCap SortKey = "market_cap"
	SortPrice     SortKey = "price"
	SortChange24h SortKey = "change_24h"
)

func ParseSort(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortMarketCap:
		return SortMarketCap, nil
	case SortPrice, SortChange24h:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort %q; available: market_cap, price, change_24h", s)
}

// Sort orders coins in place by key, descending. Ties keep their order.
func Sort(coins []types.Cryptocurrency, key SortKey) {
	var val func(c types.Cryptocurrency) float64
	switch key {
	case SortPrice:
		val = func(c types.Cryptocurrency) float64 { return c.CurrentPrice }
	case SortChange24h:
		val = func(c types.Cryptocurrency) float64 { return c.PriceChangePercentage24h }
	default:
		val = func(c types.Cryptocurrency) float64 { return c.MarketCap }
	}
	sort.SliceStable(coins, func(i, j int) bool { return val(coins[i]) > val(coins[j]) })
}

type Runner struct {
	IDs      IDSource
	Markets  *query.Markets
	Renderer render.Renderer
	Writer   io.Writer
	Log      *slog.Logger
}

type ExecuteOptions struct {
	Columns     []string
	Filter      filter.Filter
	Sort        SortKey
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	// Refresh bypasses the cache staleness window.
	Refresh bool
}

// WatchedIDs is the id list the dashboard queries. Empty means the
// provider's top coins.
func (r *Runner) WatchedIDs() []string {
	if r.IDs == nil {
		return nil
	}
	return r.IDs.IDs()
}

// Load fetches the market rows for the watched ids.
func (r *Runner) Load(ctx context.Context, refresh bool) query.Result[[]types.Cryptocurrency] {
	ids := r.WatchedIDs()
	if refresh {
		return r.Markets.RefreshList(ctx, ids)
	}
	return r.Markets.List(ctx, ids)
}

func (r *Runner) Execute(ctx context.Context, opts ExecuteOptions) error {
	return r.Present(r.Load(ctx, opts.Refresh), opts)
}

// Present filters, sorts and renders one list result. A failed result with
// no data is returned as an error; with stale data it renders and says so in
// the caption.
func (r *Runner) Present(res query.Result[[]types.Cryptocurrency], opts ExecuteOptions) error {
	if res.IsError && !res.HasData {
		return fmt.Errorf("load cryptocurrencies: %w", res.Err)
	}
	coins := filter.Coins(opts.Filter, res.Data)
	Sort(coins, opts.Sort)

	caption := ""
	if !res.UpdatedAt.IsZero() {
		caption = "updated " + res.UpdatedAt.Local().Format(time.TimeOnly)
	}
	if res.IsError {
		if r.Log != nil {
			r.Log.Warn("showing stale data", "err", res.Err)
		}
		caption += " (refresh failed: " + res.Err.Error() + ")"
	}
	if len(r.WatchedIDs()) == 0 && len(coins) > 0 {
		caption += " · top coins, watchlist empty"
	}

	return r.Renderer.Render(r.Writer, coins, render.RenderOptions{
		Columns:     opts.Columns,
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
		Caption:     strings.TrimSpace(caption),
	})
}
