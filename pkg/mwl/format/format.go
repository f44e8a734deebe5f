// Package format turns market values into display strings.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	thousand = decimal.NewFromInt(1e3)
	million  = decimal.NewFromInt(1e6)
	billion  = decimal.NewFromInt(1e9)
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v in dollars, abbreviating thousands, millions and
// billions. Values below one cent keep six decimals so small-cap prices stay
// readable.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$" + strconv.FormatFloat(v, 'f', 2, 64)
	}
	d := decimal.NewFromFloat(v)
	switch {
	case v >= 1e9:
		return "$" + d.Div(billion).StringFixed(2) + "B"
	case v >= 1e6:
		return "$" + d.Div(million).StringFixed(2) + "M"
	case v >= 1e3:
		return "$" + d.Div(thousand).StringFixed(2) + "K"
	case v > 0 && v < 0.01:
		return "$" + d.StringFixed(6)
	default:
		return "$" + d.StringFixed(2)
	}
}

// FormatPrice renders a unit price in full: two decimals, or six below one
// cent. No magnitude suffix.
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$" + strconv.FormatFloat(v, 'f', 2, 64)
	}
	d := decimal.NewFromFloat(v)
	if v > 0 && v < 0.01 {
		return "$" + d.StringFixed(6)
	}
	return "$" + d.StringFixed(2)
}

// FormatPercentage renders v with two decimals and an explicit sign.
func FormatPercentage(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64) + "%"
	}
	s := decimal.NewFromFloat(v).StringFixed(2)
	if v >= 0 {
		return "+" + s + "%"
	}
	// -0.001 rounds to zero; keep the sign the value actually has.
	if !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s + "%"
}

// FormatNumber groups thousands the en-US way with at most three fraction
// digits.
func FormatNumber(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatSupply is FormatNumber for optional supply figures; nil reads as
// unbounded.
func FormatSupply(v *float64) string {
	if v == nil || *v == 0 {
		return "∞"
	}
	return FormatNumber(*v)
}
