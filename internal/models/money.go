package models

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// usd prints amounts as "$1234.50": two decimals, no grouping.
var usd = money.NewFormatter(2, ".", "", "$", "$1")

// FormatMoney renders an amount with a leading "$" and exactly two decimals.
// Negative amounts render as "-$12.50".
func FormatMoney(d decimal.Decimal) string {
	return usd.Format(d.Round(2).Shift(2).IntPart())
}
