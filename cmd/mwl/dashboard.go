package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/columns"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/filter"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/pipeline"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/query"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/render"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// viewFlags are the table options shared by list, watch and the root command.
type viewFlags struct {
	columns []string
	sets    []string
	filter  string
	sort    string
	format  string
	pretty  bool
	refresh bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.columns, "columns", "c", nil, "columns to show, e.g. rank,name,price,chg24h,trend")
	fl.StringSliceVar(&f.sets, "sets", nil, "column sets to append: price, market, supply")
	fl.StringVarP(&f.filter, "filter", "f", "", "filter coins: a,b | glob* | /regex/ | substring")
	fl.StringVarP(&f.sort, "sort", "s", "market_cap", "sort by market_cap, price or change_24h")
	fl.StringVarP(&f.format, "output", "o", "table", "output format: table, json or ids")
	fl.BoolVar(&f.pretty, "pretty", false, "indent JSON output")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached data and fetch now")
}

func (f viewFlags) options(color bool, width int) (pipeline.ExecuteOptions, render.Renderer, error) {
	cols := f.columns
	if len(f.sets) > 0 {
		extra, err := columns.ExpandSets(f.sets)
		if err != nil {
			return pipeline.ExecuteOptions{}, nil, err
		}
		if len(cols) == 0 {
			cols = []string{"name", "symbol"}
		}
		cols = append(append([]string(nil), cols...), extra...)
	}
	cols = columns.Compute(cols)
	if err := columns.Validate(cols); err != nil {
		return pipeline.ExecuteOptions{}, nil, err
	}
	filt, err := filter.Parse(f.filter)
	if err != nil {
		return pipeline.ExecuteOptions{}, nil, err
	}
	sortKey, err := pipeline.ParseSort(f.sort)
	if err != nil {
		return pipeline.ExecuteOptions{}, nil, err
	}
	r, ok := render.ForFormat(strings.ToLower(f.format))
	if !ok {
		return pipeline.ExecuteOptions{}, nil, fmt.Errorf("unknown output format %q", f.format)
	}
	return pipeline.ExecuteOptions{
		Columns:     cols,
		Filter:      filt,
		Sort:        sortKey,
		Color:       color && f.format == "table",
		PrettyJSON:  f.pretty,
		MaxColWidth: width / 3,
		Refresh:     f.refresh,
	}, r, nil
}

func (c *cli) runner(r render.Renderer, w io.Writer) *pipeline.Runner {
	return &pipeline.Runner{
		IDs:      c.app.store,
		Markets:  c.app.markets,
		Renderer: r,
		Writer:   w,
		Log:      c.app.log,
	}
}

func (c *cli) runList(cmd *cobra.Command, view viewFlags) error {
	opts, r, err := view.options(c.color(), c.width())
	if err != nil {
		return err
	}
	return c.runner(r, cmd.OutOrStdout()).Execute(cmd.Context(), opts)
}

func (c *cli) newListCmd() *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show market data for the watchlist (top coins when it is empty)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd, view)
		},
	}
	view.register(cmd)
	return cmd
}

const clearScreen = "\x1b[H\x1b[2J"

func (c *cli) newWatchCmd() *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the watchlist table every poll interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, r, err := view.options(c.color(), c.width())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			run := c.runner(r, out)
			ctx := cmd.Context()

			poller := c.app.markets.WatchList(ctx, run.WatchedIDs(), func(res query.Result[[]types.Cryptocurrency]) {
				if res.IsLoading {
					return
				}
				fmt.Fprint(out, clearScreen)
				if err := run.Present(res, opts); err != nil {
					fmt.Fprintln(out, "error:", err)
				}
				fmt.Fprintf(out, "refreshing every %s, Ctrl-C to quit\n", c.app.cfg.Poll.Interval)
			})
			defer poller.Stop()
			<-poller.Done()
			return nil
		},
	}
	view.register(cmd)
	return cmd
}
