package ports

import (
	"context"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// UserSvc exposes the user account use cases to the shell.
type UserSvc interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	Authenticate(ctx context.Context, req dto.LoginRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int, req dto.ChangePasswordRequest) error
}

// CurrencySvc exposes the currency registry.
type CurrencySvc interface {
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	// ValidateCode normalizes a currency code and checks it against the
	// registry, returning the canonical uppercase form.
	ValidateCode(ctx context.Context, code string) (string, error)
}

// RateSvc exposes rate lookups, including reciprocal derivation.
type RateSvc interface {
	GetRate(ctx context.Context, fromCode, toCode string) (*dto.RateResponse, error)
	ListRates(ctx context.Context, params dto.ListRatesParams) ([]dto.RateResponse, error)
	// LastRefresh reports when the rate snapshot was last written, or nil
	// when unknown.
	LastRefresh(ctx context.Context) (*time.Time, error)
}

// WalletSvc exposes the wallet use cases: buy, sell, valuation, history.
type WalletSvc interface {
	Buy(ctx context.Context, userID int, req dto.TradeRequest) (*dto.BuyReceipt, error)
	Sell(ctx context.Context, userID int, req dto.TradeRequest) (*dto.SellReceipt, error)
	Valuation(ctx context.Context, userID int, baseCurrency string) (*dto.PortfolioReport, error)
	History(ctx context.Context, userID int) ([]domain.Transaction, error)
}
