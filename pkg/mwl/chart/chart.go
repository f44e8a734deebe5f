// Package chart turns provider chart data into plottable series.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// Timeframe is a selectable chart range.
type Timeframe struct {
	Label string
	Days  float64
}

// Timeframes lists the ranges offered by the details view. 1H is requested
// as a fraction of a day; the provider has no hourly range.
var Timeframes = []Timeframe{
	{Label: "1H", Days: 0.04},
	{Label: "24H", Days: 1},
	{Label: "7D", Days: 7},
	{Label: "30D", Days: 30},
	{Label: "90D", Days: 90},
	{Label: "1Y", Days: 365},
}

// DefaultTimeframe is 24H.
var DefaultTimeframe = Timeframes[1]

// ParseTimeframe looks a label up case-insensitively.
func ParseTimeframe(label string) (Timeframe, error) {
	for _, tf := range Timeframes {
		if strings.EqualFold(tf.Label, strings.TrimSpace(label)) {
			return tf, nil
		}
	}
	labels := make([]string, 0, len(Timeframes))
	for _, tf := range Timeframes {
		labels = append(labels, tf.Label)
	}
	return Timeframe{}, fmt.Errorf("unknown timeframe %q; available: %s", label, strings.Join(labels, ", "))
}

// Series is one metric over time.
type Series struct {
	Times  []time.Time
	Values []float64
}

func (s Series) Len() int { return len(s.Values) }

// FromPairs builds a Series from [unix ms, value] pairs.
func FromPairs(pairs [][2]float64) Series {
	s := Series{
		Times:  make([]time.Time, 0, len(pairs)),
		Values: make([]float64, 0, len(pairs)),
	}
	for _, p := range pairs {
		s.Times = append(s.Times, time.UnixMilli(int64(p[0])).UTC())
		s.Values = append(s.Values, p[1])
	}
	return s
}

func Prices(cd *types.ChartData) Series {
	if cd == nil {
		return Series{}
	}
	return FromPairs(cd.Prices)
}

func Volumes(cd *types.ChartData) Series {
	if cd == nil {
		return Series{}
	}
	return FromPairs(cd.TotalVolumes)
}

// Unit is the axis granularity for a range.
type Unit string

const (
	UnitHour  Unit = "hour"
	UnitDay   Unit = "day"
	UnitMonth Unit = "month"
)

func TimeUnit(days float64) Unit {
	switch {
	case days <= 1:
		return UnitHour
	case days <= 30:
		return UnitDay
	default:
		return UnitMonth
	}
}

// Trend reports whether values ended at or above where they started. An
// empty series counts as up.
func Trend(values []float64) bool {
	if len(values) < 2 {
		return true
	}
	return values[len(values)-1] >= values[0]
}

// MinMax returns the extremes of values; both are zero for an empty slice.
func MinMax(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
