package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRequest defines the input for a buy or sell operation.
// The amount is validated for positivity at the service layer, where a
// decimal comparison gives a precise check.
type TradeRequest struct {
	CurrencyCode string          `validate:"required,uppercase,min=2,max=5"`
	Amount       decimal.Decimal `validate:"required"`
}

// BuyReceipt is the structured result of a buy operation, for display only.
// Rate and Cost are nil when the bought currency is the base currency
// (a plain deposit with no conversion).
type BuyReceipt struct {
	CurrencyCode     string           `json:"currencyCode"`
	Amount           decimal.Decimal  `json:"amount"`
	Rate             *decimal.Decimal `json:"rate,omitempty"`
	Cost             *decimal.Decimal `json:"cost,omitempty"` // In base currency
	NewBalance       decimal.Decimal  `json:"newBalance"`
	BaseBalanceAfter decimal.Decimal  `json:"baseBalanceAfter"`
}

// SellReceipt is the structured result of a sell operation, for display only.
// Rate is nil when the sold currency is the base currency.
type SellReceipt struct {
	CurrencyCode     string           `json:"currencyCode"`
	Amount           decimal.Decimal  `json:"amount"`
	Rate             *decimal.Decimal `json:"rate,omitempty"`
	Proceeds         decimal.Decimal  `json:"proceeds"` // In base currency
	NewBalance       decimal.Decimal  `json:"newBalance"`
	BaseBalanceAfter decimal.Decimal  `json:"baseBalanceAfter"`
}

// Position is one row of a portfolio valuation.
type Position struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	ValueInBase  decimal.Decimal `json:"valueInBase"`
	CurrencyInfo string          `json:"currencyInfo"`
}

// PortfolioReport is the result of a valuation: every held currency
// converted to the base currency, plus the total.
type PortfolioReport struct {
	UserID         int             `json:"userID"`
	Username       string          `json:"username"`
	BaseCurrency   string          `json:"baseCurrency"`
	Positions      []Position      `json:"positions"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	RatesRefreshed *time.Time      `json:"ratesRefreshed,omitempty"`
}
