package enums

import (
	"fmt"
	"strings"
)

// Currency selects which denomination the storefront shows as the primary figure.
type Currency string

const (
	CurrencyUSD   Currency = "USD"
	CurrencyLocal Currency = "LOCAL"
)

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyLocal,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency. Matching ignores case.
func ParseCurrency(value string) (Currency, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validCurrencies {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
