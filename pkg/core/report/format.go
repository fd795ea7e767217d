// Package report prepares an analysis for display: a table with fixed
// per-column formats, the current-ratio summary, and a markdown snapshot
// used as the AI request payload.
package report

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown in place of a metric that could not be computed.
const NotAvailable = "N/A"

// FormatAmount renders a statement value as an integer with thousands
// separators, e.g. 1234567.8 -> "1,234,568".
func FormatAmount(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return groupThousands(decimal.NewFromFloat(v).Round(0).StringFixed(0))
}

// FormatPercent renders a percentage with two decimals, e.g. 20 -> "20.00%".
func FormatPercent(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// FormatRatio renders a ratio with two decimals, e.g. 2 -> "2.00".
func FormatRatio(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// finite guards decimal.NewFromFloat, which panics on NaN and ±Inf.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// groupThousands inserts commas into the integer part of a plain decimal
// string ("-1234567.50" -> "-1,234,567.50").
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
