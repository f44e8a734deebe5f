package main

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/chart"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/crossref"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/query"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/render"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

func (c *cli) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find coin ids by name or symbol",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.TrimSpace(strings.Join(args, " "))
			res := c.app.markets.Search(cmd.Context(), q)
			if res.IsError {
				return fmt.Errorf("search %q: %w", q, res.Err)
			}
			return render.RenderSearch(cmd.OutOrStdout(), res.Data, c.app.store.Contains, c.color())
		},
	}
}

func (c *cli) newShowCmd() *cobra.Command {
	var (
		rangeLabel string
		withYahoo  bool
	)
	cmd := &cobra.Command{
		Use:   "show <id>...",
		Short: "Show details, price and volume charts and links for coins",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := chart.ParseTimeframe(rangeLabel)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ids := cleanIDs(args)
			if len(ids) == 0 {
				return fmt.Errorf("no coin id given")
			}

			var (
				details []query.Result[*types.CryptoDetails]
				charts  []query.Result[*types.ChartData]
				wg      conc.WaitGroup
			)
			wg.Go(func() { details = c.app.markets.DetailsMany(ctx, ids) })
			wg.Go(func() {
				charts = iter.Map(ids, func(id *string) query.Result[*types.ChartData] {
					return c.app.markets.Chart(ctx, *id, tf.Days)
				})
			})
			wg.Wait()

			out := cmd.OutOrStdout()
			for i, id := range ids {
				if i > 0 {
					fmt.Fprintln(out, "\n"+strings.Repeat("─", 40)+"\n")
				}
				if err := c.showOne(cmd, id, tf, details[i], charts[i], withYahoo); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&rangeLabel, "range", "r", chart.DefaultTimeframe.Label, "chart range: 1H, 24H, 7D, 30D, 90D or 1Y")
	cmd.Flags().BoolVar(&withYahoo, "crossref", false, "compare the price with Yahoo Finance")
	return cmd
}

func (c *cli) showOne(cmd *cobra.Command, id string, tf chart.Timeframe, details query.Result[*types.CryptoDetails], prices query.Result[*types.ChartData], withYahoo bool) error {
	if details.IsError {
		return fmt.Errorf("load %s: %w", id, details.Err)
	}
	if details.Data == nil {
		return fmt.Errorf("no details for %q", id)
	}
	if prices.IsError {
		c.app.log.Warn("chart unavailable", "id", id, "err", prices.Err)
	}

	opts := render.DetailsOptions{Color: c.color(), Width: c.width(), Timeframe: tf}
	if withYahoo {
		opts.Extra = append(opts.Extra, crossref.Compare(cmd.Context(), c.app.quotes, details.Data.Cryptocurrency).Row())
	}
	if err := render.NewDetailsRenderer().Render(cmd.OutOrStdout(), details.Data, prices.Data, opts); err != nil {
		return err
	}
	if c.app.store.Contains(id) {
		fmt.Fprintln(cmd.OutOrStdout(), "\n★ in your watchlist")
	}
	return nil
}
