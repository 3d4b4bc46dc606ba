package ui

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// formatGrouped prints a whole number with thousands separators: 1,234,567
func formatGrouped(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// formatDollars prints an amount as $12,345.67
func formatDollars(v float64) string {
	return "$" + printer.Sprintf("%.2f", v)
}

// formatCorrelation prints a coefficient to two decimals, or N/A when undefined
func formatCorrelation(r *float64) string {
	if r == nil || math.IsNaN(*r) {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", *r)
}

// correlationClass buckets a coefficient for the matrix cell colors
func correlationClass(r *float64) string {
	if r == nil || math.IsNaN(*r) {
		return "corr-none"
	}
	abs := math.Abs(*r)
	sign := "pos"
	if *r < 0 {
		sign = "neg"
	}
	switch {
	case abs >= 0.7:
		return "corr-strong-" + sign
	case abs >= 0.4:
		return "corr-moderate-" + sign
	case abs >= 0.1:
		return "corr-weak-" + sign
	default:
		return "corr-none"
	}
}
