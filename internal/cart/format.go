package cart

import (
	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/pkg/enums"
)

const (
	symbolUSD   = "$"
	symbolLocal = "Bs."
)

// Symbol returns the prefix printed before amounts in currency.
func Symbol(currency enums.Currency) string {
	if currency == enums.CurrencyLocal {
		return symbolLocal
	}
	return symbolUSD
}

// FormatAmount renders amount with exactly two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatMoney renders amount prefixed with the currency symbol.
func FormatMoney(amount decimal.Decimal, currency enums.Currency) string {
	return Symbol(currency) + FormatAmount(amount)
}
