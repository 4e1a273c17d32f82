package analyzer

import (
	"fmt"
	"math"
)

// FormatCurrency renders an amount in reais using the bilhões/milhões/mil
// suffixes with two decimals. Amounts below one thousand are printed as is.
func FormatCurrency(value float64) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return "R$ 0"
	}

	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	switch {
	case value >= 1e9:
		return fmt.Sprintf("R$ %s%.2f bilhões", sign, value/1e9)
	case value >= 1e6:
		return fmt.Sprintf("R$ %s%.2f milhões", sign, value/1e6)
	case value >= 1e3:
		return fmt.Sprintf("R$ %s%.2f mil", sign, value/1e3)
	default:
		return fmt.Sprintf("R$ %s%.2f", sign, value)
	}
}
