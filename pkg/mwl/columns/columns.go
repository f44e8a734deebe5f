package columns

import (
	"strconv"
	"strings"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/chart"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/format"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// Resolver converts a coin into the display string for one column.
type Resolver func(c types.Cryptocurrency) string

// Def describes a column.
type Def struct {
	Key     string
	Header  string
	Numeric bool
	// Signed columns are coloured by the sign of Sign.
	Sign    func(c types.Cryptocurrency) float64
	Resolve Resolver
}

// SparkWidth is the width of the trend column.
const SparkWidth = 16

// Default is the dashboard column order used when none is requested.
var Default = []string{"rank", "name", "symbol", "price", "chg24h", "chg7d", "mcap", "volume"}

// Registry maps column keys to their definitions.
var Registry = map[string]Def{}

func register(d Def) { Registry[d.Key] = d }

func init() {
	register(Def{Key: "rank", Header: "#", Numeric: true, Resolve: func(c types.Cryptocurrency) string {
		if c.MarketCapRank == 0 {
			return "-"
		}
		return strconv.Itoa(c.MarketCapRank)
	}})
	register(Def{Key: "id", Header: "ID", Resolve: func(c types.Cryptocurrency) string { return c.ID }})
	register(Def{Key: "symbol", Header: "SYMBOL", Resolve: func(c types.Cryptocurrency) string {
		return strings.ToUpper(c.Symbol)
	}})
	register(Def{Key: "name", Header: "NAME", Resolve: func(c types.Cryptocurrency) string { return c.Name }})
	register(Def{Key: "price", Header: "PRICE", Numeric: true, Resolve: func(c types.Cryptocurrency) string {
		return format.FormatPrice(c.CurrentPrice)
	}})
	register(Def{Key: "chg24h", Header: "24H", Numeric: true,
		Sign: func(c types.Cryptocurrency) float64 { return c.PriceChangePercentage24h },
		Resolve: func(c types.Cryptocurrency) string {
			return format.FormatPercentage(c.PriceChangePercentage24h)
		}})
	register(Def{Key: "chg7d", Header: "7D", Numeric: true,
		Sign: func(c types.Cryptocurrency) float64 { return c.Price7d() },
		Resolve: func(c types.Cryptocurrency) string {
			if c.PriceChangePercentage7d == nil {
				return "-"
			}
			return format.FormatPercentage(*c.PriceChangePercentage7d)
		}})
	register(Def{Key: "mcap", Header: "MARKET CAP", Numeric: true, Resolve: func(c types.Cryptocurrency) string {
		return format.FormatCurrency(c.MarketCap)
	}})
	register(Def{Key: "volume", Header: "VOLUME 24H", Numeric: true, Resolve: func(c types.Cryptocurrency) string {
		return format.FormatCurrency(c.TotalVolume)
	}})
	register(Def{Key: "high24h", Header: "HIGH 24H", Numeric: true, Resolve: func(c types.Cryptocurrency) string {
		return format.FormatCurrency(c.High24h)
	}})
	register(Def{Key: "low24h", Header: "LOW 24H", Numeric: true, Resolve: func(c types.Cryptocurrency) string {
		return format.FormatCurrency(c.Low24h)
	}})
	register(Def{Key: "supply", Header: "CIRCULATING", Numeric: true, Resolve: func(c types.Cryptocurrency) string {
		return format.FormatNumber(c.CirculatingSupply)
	}})
	register(Def{Key: "max_supply", Header: "MAX SUPPLY", Numeric: true, Resolve: func(c types.Cryptocurrency) string {
		return format.FormatSupply(c.MaxSupply)
	}})
	register(Def{Key: "trend", Header: "7D TREND",
		Sign: func(c types.Cryptocurrency) float64 {
			if c.Sparkline7d == nil || chart.Trend(c.Sparkline7d.Price) {
				return 1
			}
			return -1
		},
		Resolve: func(c types.Cryptocurrency) string {
			if c.Sparkline7d == nil {
				return ""
			}
			return chart.Sparkline(c.Sparkline7d.Price, SparkWidth)
		}})
}

// Lookup returns the definition for key.
func Lookup(key string) (Def, bool) {
	d, ok := Registry[strings.ToLower(strings.TrimSpace(key))]
	return d, ok
}

// Compute determines the final column order. An explicit list is honored
// as given with duplicates dropped; otherwise Default is used.
func Compute(explicit []string) []string {
	if len(explicit) == 0 {
		return append([]string(nil), Default...)
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(explicit))
	for _, k := range explicit {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// RenderValue resolves col for c. Unknown columns render empty.
func RenderValue(col string, c types.Cryptocurrency) string {
	if d, ok := Lookup(col); ok {
		return d.Resolve(c)
	}
	return ""
}

// Validate reports the first unknown column in cols.
func Validate(cols []string) error {
	for _, c := range cols {
		if _, ok := Lookup(c); !ok {
			return &UnknownColumnError{Name: c}
		}
	}
	return nil
}

type UnknownColumnError struct{ Name string }

func (e *UnknownColumnError) Error() string { return "unknown column: " + e.Name }
