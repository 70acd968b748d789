package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

func TestWallet_Deposit(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		amount  string
		want    string
		wantErr error
	}{
		{name: "positive amount", start: "10", amount: "2.5", want: "12.5"},
		{name: "zero amount rejected", start: "10", amount: "0", want: "10", wantErr: apperrors.ErrValidation},
		{name: "negative amount rejected", start: "10", amount: "-1", want: "10", wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &domain.Wallet{CurrencyCode: "USD", Balance: decimal.RequireFromString(tt.start)}
			err := w.Deposit(decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, w.Balance.Equal(decimal.RequireFromString(tt.want)), "balance was %s", w.Balance)
		})
	}
}

func TestWallet_Withdraw(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		amount  string
		want    string
		wantErr error
	}{
		{name: "within balance", start: "10", amount: "4", want: "6"},
		{name: "full balance", start: "10", amount: "10", want: "0"},
		{name: "over balance rejected", start: "10", amount: "10.01", want: "10", wantErr: apperrors.ErrInsufficientFunds},
		{name: "zero amount rejected", start: "10", amount: "0", want: "10", wantErr: apperrors.ErrValidation},
		{name: "negative amount rejected", start: "10", amount: "-1", want: "10", wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &domain.Wallet{CurrencyCode: "USD", Balance: decimal.RequireFromString(tt.start)}
			err := w.Withdraw(decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, w.Balance.Equal(decimal.RequireFromString(tt.want)), "balance was %s", w.Balance)
		})
	}
}

func TestWallet_WithdrawReportsBalances(t *testing.T) {
	w := &domain.Wallet{CurrencyCode: "BTC", Balance: decimal.RequireFromString("0.01")}

	err := w.Withdraw(decimal.RequireFromString("0.05"))

	var fundsErr *apperrors.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, "BTC", fundsErr.CurrencyCode)
	assert.True(t, fundsErr.Available.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, fundsErr.Required.Equal(decimal.RequireFromString("0.05")))
}

func TestPortfolio_AddCurrency(t *testing.T) {
	p := domain.NewPortfolio(1)

	w := p.AddCurrency("btc")
	assert.Equal(t, "BTC", w.CurrencyCode)
	assert.True(t, w.Balance.IsZero())

	// Same wallet on repeat, balance untouched.
	require.NoError(t, w.Deposit(decimal.RequireFromString("0.5")))
	again := p.AddCurrency("BTC")
	assert.Same(t, w, again)
	assert.True(t, again.Balance.Equal(decimal.RequireFromString("0.5")))
}

func TestPortfolio_CurrencyCodesSorted(t *testing.T) {
	p := domain.NewPortfolio(1)
	for _, code := range []string{"USD", "BTC", "EUR", "ETH"} {
		p.AddCurrency(code)
	}

	assert.Equal(t, []string{"BTC", "ETH", "EUR", "USD"}, p.CurrencyCodes())
}

func TestRate_Inverse(t *testing.T) {
	r := domain.Rate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "BTC",
		Rate:             decimal.RequireFromString("0.00001685"),
		Source:           "coingecko",
	}

	inv := r.Inverse()
	assert.Equal(t, "BTC", inv.FromCurrencyCode)
	assert.Equal(t, "USD", inv.ToCurrencyCode)
	assert.True(t, inv.Derived)
	assert.Equal(t, "coingecko", inv.Source)
	assert.InDelta(t, 59347.18, inv.Rate.InexactFloat64(), 0.01)
}
