package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionAction enumerates the mutating wallet operations recorded in
// the transaction history.
type TransactionAction string

const (
	ActionBuy      TransactionAction = "BUY"
	ActionSell     TransactionAction = "SELL"
	ActionDeposit  TransactionAction = "DEPOSIT"
	ActionWithdraw TransactionAction = "WITHDRAW"
)

// Transaction is an append-only history record of a completed buy or sell.
// Rate and Total are zero for base-currency deposits and withdrawals, which
// involve no conversion.
type Transaction struct {
	TransactionID    string            `json:"transactionID"` // UUID
	UserID           int               `json:"userID"`
	Action           TransactionAction `json:"action"`
	FromCurrencyCode string            `json:"fromCurrencyCode"`
	ToCurrencyCode   string            `json:"toCurrencyCode"`
	Amount           decimal.Decimal   `json:"amount"`
	Rate             decimal.Decimal   `json:"rate"`
	Total            decimal.Decimal   `json:"total"` // In the base currency
	Timestamp        time.Time         `json:"timestamp"`
}
