package jsonstore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

// transactionRecord is the on-disk representation of a history entry.
type transactionRecord struct {
	TransactionID string          `json:"transaction_id"`
	UserID        int             `json:"user_id"`
	Action        string          `json:"action"`
	FromCurrency  string          `json:"from_currency"`
	ToCurrency    string          `json:"to_currency"`
	Amount        decimal.Decimal `json:"amount"`
	Rate          decimal.Decimal `json:"rate"`
	Total         decimal.Decimal `json:"total"`
	Timestamp     time.Time       `json:"timestamp"`
}

func toTransactionRecord(d domain.Transaction) transactionRecord {
	return transactionRecord{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		Action:        string(d.Action),
		FromCurrency:  d.FromCurrencyCode,
		ToCurrency:    d.ToCurrencyCode,
		Amount:        d.Amount,
		Rate:          d.Rate,
		Total:         d.Total,
		Timestamp:     d.Timestamp,
	}
}

func toDomainTransaction(r transactionRecord) domain.Transaction {
	return domain.Transaction{
		TransactionID:    r.TransactionID,
		UserID:           r.UserID,
		Action:           domain.TransactionAction(r.Action),
		FromCurrencyCode: r.FromCurrency,
		ToCurrencyCode:   r.ToCurrency,
		Amount:           r.Amount,
		Rate:             r.Rate,
		Total:            r.Total,
		Timestamp:        r.Timestamp,
	}
}

// TransactionRepository persists the append-only history in transactions.json.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a TransactionRepository on the given store.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

var _ ports.TransactionRepository = (*TransactionRepository)(nil)

func (r *TransactionRepository) load() ([]transactionRecord, error) {
	var records []transactionRecord
	if err := r.store.readJSON(transactionsFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *TransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	records, err := r.load()
	if err != nil {
		return err
	}
	records = append(records, toTransactionRecord(txn))
	return r.store.writeJSON(transactionsFile, records)
}

// ListTransactionsByUserID returns the user's history in insertion order.
func (r *TransactionRepository) ListTransactionsByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	var txns []domain.Transaction
	for _, record := range records {
		if record.UserID == userID {
			txns = append(txns, toDomainTransaction(record))
		}
	}
	return txns, nil
}
