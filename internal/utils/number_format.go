package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNumber formats an amount with exactly two decimal places and a space
// as the thousands separator, so the output never collides with source cells
// that use a decimal comma.
// Example: 1234.5 -> "1 234.50"
func FormatNumber(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
