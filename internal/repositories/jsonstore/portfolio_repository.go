package jsonstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

// walletRecord is the on-disk representation of a single currency balance.
type walletRecord struct {
	CurrencyCode string          `json:"currency_code"`
	Balance      decimal.Decimal `json:"balance"`
}

// portfolioRecord is the on-disk representation of a user's portfolio, with
// currency codes as mapping keys.
type portfolioRecord struct {
	UserID  int                     `json:"user_id"`
	Wallets map[string]walletRecord `json:"wallets"`
}

func toPortfolioRecord(d domain.Portfolio) portfolioRecord {
	record := portfolioRecord{
		UserID:  d.UserID,
		Wallets: make(map[string]walletRecord, len(d.Wallets)),
	}
	for code, w := range d.Wallets {
		record.Wallets[code] = walletRecord{CurrencyCode: w.CurrencyCode, Balance: w.Balance}
	}
	return record
}

func toDomainPortfolio(r portfolioRecord) domain.Portfolio {
	p := domain.NewPortfolio(r.UserID)
	for code, w := range r.Wallets {
		p.Wallets[code] = &domain.Wallet{CurrencyCode: w.CurrencyCode, Balance: w.Balance}
	}
	return *p
}

// PortfolioRepository persists portfolios in portfolios.json.
type PortfolioRepository struct {
	store *Store
}

// NewPortfolioRepository creates a PortfolioRepository on the given store.
func NewPortfolioRepository(store *Store) *PortfolioRepository {
	return &PortfolioRepository{store: store}
}

var _ ports.PortfolioRepository = (*PortfolioRepository)(nil)

func (r *PortfolioRepository) load() ([]portfolioRecord, error) {
	var records []portfolioRecord
	if err := r.store.readJSON(portfoliosFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SavePortfolio replaces the stored portfolio of the same user in full, or
// appends it when absent. The write is atomic at the file level.
func (r *PortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	records, err := r.load()
	if err != nil {
		return err
	}

	record := toPortfolioRecord(portfolio)
	replaced := false
	for i := range records {
		if records[i].UserID == record.UserID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	return r.store.writeJSON(portfoliosFile, records)
}

func (r *PortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID int) (*domain.Portfolio, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.UserID == userID {
			p := toDomainPortfolio(record)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("portfolio of user %d: %w", userID, apperrors.ErrNotFound)
}
