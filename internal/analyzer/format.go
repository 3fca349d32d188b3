package analyzer

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatMoney renders a dollar amount with thousands separators and at most
// two decimals, e.g. "$12,345.6".
func FormatMoney(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 2)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}

// FormatPercent renders a fraction as a percentage, e.g. 0.08 -> "8%".
func FormatPercent(fraction float64) string {
	return strconv.FormatFloat(round(fraction*100, 2), 'f', -1, 64) + "%"
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
