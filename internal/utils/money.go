package utils

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimals shown for amounts (millimes for TND).
const MoneyPlaces = 3

// FormatMoney renders an amount with three decimals, e.g. "12.500 TND".
func FormatMoney(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(MoneyPlaces)
	if currency == "" {
		return s
	}
	return s + " " + currency
}
