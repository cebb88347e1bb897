// Package format renders calculation values for people: Indonesian Rupiah
// amounts, percentages and plain numbers with comma decimals.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Simplici0/sellercalc/internal/pricing"
)

// InfinityToken is shown in place of an unbounded value.
const InfinityToken = "∞"

const currencyPrefix = "Rp "

var printer = message.NewPrinter(language.Indonesian)

// Currency rounds v to the nearest whole Rupiah with dot grouping, e.g. "Rp 37.245".
func Currency(v float64) string {
	if math.IsNaN(v) {
		return currencyPrefix + "0"
	}
	if math.IsInf(v, 1) {
		return InfinityToken
	}
	if math.IsInf(v, -1) {
		return "-" + InfinityToken
	}
	rounded := math.Round(v)
	if rounded >= math.MaxInt64 || rounded <= math.MinInt64 {
		return currencyPrefix + printer.Sprintf("%.0f", rounded)
	}
	return currencyPrefix + printer.Sprintf("%d", int64(rounded))
}

// Percent renders a fraction as a percentage with two decimals, e.g. "12,60%".
func Percent(fraction float64) string {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return "0,00%"
	}
	return printer.Sprintf("%.2f", fraction*100) + "%"
}

// Number renders v with two decimals. Positive infinity renders as InfinityToken.
func Number(v float64) string {
	if math.IsInf(v, 1) {
		return InfinityToken
	}
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return "0,00"
	}
	return printer.Sprintf("%.2f", v)
}

// Ratio renders a required return multiple.
func Ratio(r pricing.Ratio) string {
	if r.Unbounded() {
		return InfinityToken
	}
	return Number(r.Float64())
}
