package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidCredentials indicates a failed login: unknown username or wrong password.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNotAuthenticated indicates that an operation requiring a logged-in user
// was attempted from an anonymous session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrInsufficientFunds indicates a debit larger than the available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrRateNotFound indicates that no stored rate (direct or reverse) can
// satisfy a currency pair lookup.
var ErrRateNotFound = errors.New("exchange rate not found")

// InsufficientFundsError carries the balance details of a rejected debit.
// It unwraps to ErrInsufficientFunds so callers can branch with errors.Is.
type InsufficientFundsError struct {
	Available    decimal.Decimal
	Required     decimal.Decimal
	CurrencyCode string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s %s, required %s %s",
		e.Available.String(), e.CurrencyCode, e.Required.String(), e.CurrencyCode)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// NewInsufficientFundsError builds an InsufficientFundsError for the given balances.
func NewInsufficientFundsError(available, required decimal.Decimal, currencyCode string) error {
	return &InsufficientFundsError{
		Available:    available,
		Required:     required,
		CurrencyCode: currencyCode,
	}
}
