package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/columns"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func newWriter(w io.Writer, color bool) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

func (r *TableRenderer) Render(w io.Writer, coins []types.Cryptocurrency, opts RenderOptions) error {
	cols := columns.Compute(opts.Columns)
	if err := columns.Validate(cols); err != nil {
		return err
	}
	if len(coins) == 0 {
		_, err := fmt.Fprintln(w, "Your watchlist is empty. Add coins with `mwl add <id>`.")
		return err
	}

	tw := newWriter(w, opts.Color)
	defs := make([]columns.Def, len(cols))
	hdr := make(table.Row, len(cols))
	for i, c := range cols {
		defs[i], _ = columns.Lookup(c)
		hdr[i] = defs[i].Header
	}
	tw.AppendHeader(hdr)

	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for i, d := range defs {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		if d.Numeric {
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	tw.SetColumnConfigs(cfgs)

	for _, coin := range coins {
		row := make(table.Row, len(cols))
		for i, d := range defs {
			v := d.Resolve(coin)
			if opts.Color && d.Sign != nil {
				v = colorize(v, d.Sign(coin))
			}
			row[i] = v
		}
		tw.AppendRow(row)
	}
	if opts.Caption != "" {
		tw.SetCaption(opts.Caption)
	}
	tw.Render()
	return nil
}

func colorize(s string, sign float64) string {
	switch {
	case sign < 0:
		return text.Colors{text.FgRed}.Sprint(s)
	case sign > 0:
		return text.Colors{text.FgGreen}.Sprint(s)
	}
	return s
}

// RenderSearch prints search hits so the user can pick an id to add.
func RenderSearch(w io.Writer, results []types.SearchResult, watched func(id string) bool, color bool) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	tw := newWriter(w, color)
	tw.AppendHeader(table.Row{"#", "ID", "SYMBOL", "NAME", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignRight}})
	for _, r := range results {
		rank := "-"
		if r.MarketCapRank > 0 {
			rank = strconv.Itoa(r.MarketCapRank)
		}
		mark := ""
		if watched != nil && watched(r.ID) {
			mark = "★"
		}
		tw.AppendRow(table.Row{rank, r.ID, strings.ToUpper(r.Symbol), r.Name, mark})
	}
	tw.Render()
	return nil
}
