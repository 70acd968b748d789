package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

// Wallet holds the balance of a single currency inside a portfolio.
type Wallet struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// Deposit increases the wallet balance. The amount must be positive.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.ErrValidation
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw decreases the wallet balance. The amount must be positive and
// not exceed the current balance; otherwise the balance is left unchanged.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.ErrValidation
	}
	if amount.GreaterThan(w.Balance) {
		return apperrors.NewInsufficientFundsError(w.Balance, amount, w.CurrencyCode)
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// Portfolio holds all wallets of a single user, keyed by currency code.
// There is exactly one portfolio per user.
type Portfolio struct {
	UserID  int                `json:"userID"`
	Wallets map[string]*Wallet `json:"wallets"`
}

// NewPortfolio creates an empty portfolio for the given user.
func NewPortfolio(userID int) *Portfolio {
	return &Portfolio{
		UserID:  userID,
		Wallets: make(map[string]*Wallet),
	}
}

// AddCurrency returns the wallet for the given currency code, creating it
// with a zero balance if it does not exist yet.
func (p *Portfolio) AddCurrency(currencyCode string) *Wallet {
	code := strings.ToUpper(currencyCode)
	w, ok := p.Wallets[code]
	if !ok {
		w = &Wallet{CurrencyCode: code, Balance: decimal.Zero}
		p.Wallets[code] = w
	}
	return w
}

// Wallet returns the wallet for the given currency code, if present.
func (p *Portfolio) Wallet(currencyCode string) (*Wallet, bool) {
	w, ok := p.Wallets[strings.ToUpper(currencyCode)]
	return w, ok
}

// CurrencyCodes returns the currency codes held in this portfolio in
// deterministic (lexicographic) order.
func (p *Portfolio) CurrencyCodes() []string {
	codes := make([]string, 0, len(p.Wallets))
	for code := range p.Wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
