package exporter

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NotApplicable marks a footer cell with nothing to report.
const NotApplicable = "NA"

var (
	one  = decimal.NewFromInt(1)
	half = decimal.NewFromFloat(0.5)
)

// FormatDays renders a day count, singular for exactly one or one half.
func FormatDays(d decimal.Decimal) string {
	unit := "Days"
	if d.Equal(one) || d.Equal(half) {
		unit = "Day"
	}
	return fmt.Sprintf("%s %s", d.String(), unit)
}

// FormatLeaves renders the leave count footer value.
func FormatLeaves(n int) string {
	if n <= 0 {
		return "No leaves"
	}
	if n == 1 {
		return "1 Day"
	}
	return fmt.Sprintf("%d Days", n)
}

// FormatLateDays renders the late arrivals footer value.
func FormatLateDays(n int) string {
	if n <= 0 {
		return NotApplicable
	}
	return fmt.Sprintf("%d Days", n)
}

// FormatRate formats a percentage with one decimal place
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}
