package render

import (
	"fmt"
	"html"
	"io"
	"strings"
	"unicode"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/chart"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/format"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

var plainText = bluemonday.StrictPolicy()

type DetailsOptions struct {
	Color     bool
	Width     int
	Timeframe chart.Timeframe
	// Extra rows appended to the stats table, e.g. cross-reference quotes.
	Extra [][2]string
}

// DetailsRenderer prints the single-coin detail panel.
type DetailsRenderer struct{}

func NewDetailsRenderer() *DetailsRenderer { return &DetailsRenderer{} }

func (r *DetailsRenderer) Render(w io.Writer, d *types.CryptoDetails, cd *types.ChartData, opts DetailsOptions) error {
	if d == nil {
		return fmt.Errorf("render details: no data")
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	title := fmt.Sprintf("%s (%s)", d.Name, strings.ToUpper(d.Symbol))
	if d.MarketCapRank > 0 {
		title += fmt.Sprintf("  #%d", d.MarketCapRank)
	}
	if opts.Color {
		title = text.Bold.Sprint(title)
	}
	fmt.Fprintln(w, title)

	change := format.FormatPercentage(d.PriceChangePercentage24h)
	if opts.Color {
		change = colorize(change, d.PriceChangePercentage24h)
	}
	fmt.Fprintf(w, "%s  %s\n\n", format.FormatPrice(d.CurrentPrice), change)

	label := opts.Timeframe.Label
	if label == "" {
		label = chart.DefaultTimeframe.Label
	}
	if prices := chart.Prices(cd); prices.Len() > 0 {
		lo, hi := chart.MinMax(prices.Values)
		fmt.Fprintf(w, "%s  low %s  high %s  (per %s)\n%s\n\n",
			label, format.FormatPrice(lo), format.FormatPrice(hi), chart.TimeUnit(opts.Timeframe.Days),
			spark(prices.Values, width-2, opts.Color))
	}
	if vols := chart.Volumes(cd); vols.Len() > 0 {
		lo, hi := chart.MinMax(vols.Values)
		fmt.Fprintf(w, "Volume %s  low %s  high %s\n%s\n\n",
			label, format.FormatCurrency(lo), format.FormatCurrency(hi),
			spark(vols.Values, width-2, opts.Color))
	}

	tw := newWriter(w, opts.Color)
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, row := range statRows(d) {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	for _, row := range opts.Extra {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.Render()

	if links := linkRows(d.Links); len(links) > 0 {
		fmt.Fprintln(w)
		for _, l := range links {
			fmt.Fprintf(w, "%-10s %s\n", l[0], l[1])
		}
	}

	if desc := Plain(d.Description); desc != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, text.WrapSoft(desc, width))
	}
	return nil
}

// spark draws values colored by the direction of the series.
func spark(values []float64, width int, color bool) string {
	line := chart.Sparkline(values, width)
	if !color {
		return line
	}
	up := 1.0
	if !chart.Trend(values) {
		up = -1
	}
	return colorize(line, up)
}

func statRows(d *types.CryptoDetails) [][2]string {
	return [][2]string{
		{"Market Cap", format.FormatCurrency(d.MarketCap)},
		{"Volume 24h", format.FormatCurrency(d.TotalVolume)},
		{"High 24h", format.FormatCurrency(d.High24h)},
		{"Low 24h", format.FormatCurrency(d.Low24h)},
		{"7d Change", format.FormatPercentage(d.Price7d())},
		{"All-Time High", format.FormatCurrency(d.ATH)},
		{"All-Time Low", format.FormatCurrency(d.ATL)},
		{"Circulating", format.FormatNumber(d.CirculatingSupply)},
		{"Total Supply", format.FormatSupply(d.TotalSupply)},
		{"Max Supply", format.FormatSupply(d.MaxSupply)},
	}
}

func linkRows(l *types.Links) [][2]string {
	if l == nil {
		return nil
	}
	var out [][2]string
	add := func(label string, vals ...string) {
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, [2]string{label, v})
				return
			}
		}
	}
	add("Website", l.Homepage...)
	add("Explorer", l.BlockchainSite...)
	add("Reddit", l.SubredditURL)
	add("GitHub", l.ReposURL.GitHub...)
	if l.TwitterScreenName != "" {
		add("Twitter", "https://twitter.com/"+l.TwitterScreenName)
	}
	return out
}

// Plain strips markup from a sanitized description for terminal output.
// Control characters decoded from entities are dropped, except newline and tab.
func Plain(s string) string {
	out := html.UnescapeString(plainText.Sanitize(s))
	out = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, out)
	return strings.TrimSpace(out)
}
