package model

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders amount in the given ISO currency, e.g. "$450.00" or
// "¥1,500". An empty currency defaults to USD. Unknown codes are shown with
// two minor digits.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = money.USD
	}
	fraction := 2
	if c := money.GetCurrency(currency); c != nil {
		fraction = c.Fraction
	}
	minor := amount.Shift(int32(fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}
