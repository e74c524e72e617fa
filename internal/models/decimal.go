package models

import (
	"fmt"
	"strconv"
)

// Decimal columns travel as strings (matching the wire shape of numeric
// columns) and are always stored with two decimal places.

// Decimal2 formats a float as a 2-decimal string, e.g. 80 -> "80.00".
func Decimal2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// ParseDecimal parses a stored decimal string, treating empty or malformed
// values as zero.
func ParseDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
