package ports

import (
	"context"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

// Context is included for symmetry with blocking stores even though the
// JSON-file implementations complete synchronously.

// UserRepository defines persistence operations for Users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID int) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// NextUserID returns the next sequential user ID (max existing + 1).
	NextUserID(ctx context.Context) (int, error)
}

// PortfolioRepository defines persistence operations for Portfolios.
// SavePortfolio replaces the stored portfolio of the same user in full, so
// a save is atomic with respect to that user's balances.
type PortfolioRepository interface {
	SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error
	FindPortfolioByUserID(ctx context.Context, userID int) (*domain.Portfolio, error)
}

// RateRepository defines read operations for the stored exchange rates.
// Rates are reference data: there are no mutation operations in scope.
type RateRepository interface {
	// FindRate returns the stored rate for the exact pair, or
	// apperrors.ErrNotFound when the pair is absent. Reciprocal derivation
	// is a service concern.
	FindRate(ctx context.Context, fromCode, toCode string) (*domain.Rate, error)
	ListRates(ctx context.Context) ([]domain.Rate, error)
	// LastRefresh reports when the rate snapshot was last written, or nil
	// when unknown.
	LastRefresh(ctx context.Context) (*time.Time, error)
}

// TransactionRepository defines the append-only transaction history.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	ListTransactionsByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
}
