package utils

import (
	"math"
	"strconv"
	"strings"
)

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"DKK": "kr ",
}

// FormatPrice formats amount like "€1,234.50". Unknown currencies are
// prefixed with their code.
func FormatPrice(amount float64, currency string) string {
	cents := int64(math.Round(amount * 100))
	neg := cents < 0
	if neg {
		cents = -cents
	}

	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	b.WriteString(groupThousands(strconv.FormatInt(cents/100, 10)))
	b.WriteByte('.')
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		b.WriteByte('0')
	}
	b.WriteString(frac)
	return b.String()
}

// groupThousands inserts commas into a string of digits.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatCount formats an integer with thousands separators, e.g. 7541 -> "7,541".
func FormatCount(n int) string {
	if n < 0 {
		return "-" + groupThousands(strconv.Itoa(-n))
	}
	return groupThousands(strconv.Itoa(n))
}
