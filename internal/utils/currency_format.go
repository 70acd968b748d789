package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

// FormatWithCurrencyPrecision formats an amount with the display precision
// of the given currency.
// Example: amount 12.3456 with USD (precision 2) returns "12.35"
// Example: amount 0.05 with BTC (precision 8) returns "0.05000000"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.Round(int32(currency.Precision)).StringFixed(int32(currency.Precision))
}

// FormatMoney renders an amount with currency grouping and symbol, e.g.
// "$2,966.86" for USD. Codes unknown to go-money (crypto tickers) are
// registered on first use with the registry precision and a plain
// "amount CODE" template.
func FormatMoney(amount decimal.Decimal, currency domain.Currency) string {
	code := currency.CurrencyCode
	if money.GetCurrency(code) == nil {
		money.AddCurrency(code, code, "1 $", ".", ",", currency.Precision)
	}
	fraction := money.GetCurrency(code).Fraction
	minor := amount.Shift(int32(fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
