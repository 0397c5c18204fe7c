package shared

import (
	"fmt"
	"math"
)

// RoundCents rounds a monetary amount to two decimal places. Totals are
// rounded once, at the end, so per-line rounding error cannot compound.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders a monetary amount as a fixed two-decimal string.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
