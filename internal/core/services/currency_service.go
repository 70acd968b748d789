package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{2,5}$`)

// CurrencyService serves the in-process registry of supported currencies.
// The registry is seeded at construction and read-only afterwards.
type CurrencyService struct {
	currencies map[string]domain.Currency
}

// NewCurrencyService creates a CurrencyService holding the given currencies.
func NewCurrencyService(currencies []domain.Currency) *CurrencyService {
	registry := make(map[string]domain.Currency, len(currencies))
	for _, c := range currencies {
		registry[c.CurrencyCode] = c
	}
	return &CurrencyService{currencies: registry}
}

var _ ports.CurrencySvc = (*CurrencyService)(nil)

// DefaultCurrencies returns the built-in currency set.
func DefaultCurrencies() []domain.Currency {
	fiat := func(name, code, country string) domain.Currency {
		precision := 2
		if code == "JPY" {
			precision = 0
		}
		return domain.Currency{
			CurrencyCode:   code,
			Name:           name,
			Kind:           domain.KindFiat,
			Precision:      precision,
			IssuingCountry: country,
		}
	}
	crypto := func(name, code, algorithm string, marketCap float64) domain.Currency {
		return domain.Currency{
			CurrencyCode: code,
			Name:         name,
			Kind:         domain.KindCrypto,
			Precision:    8,
			Algorithm:    algorithm,
			MarketCap:    marketCap,
		}
	}

	return []domain.Currency{
		fiat("US Dollar", "USD", "United States"),
		fiat("Euro", "EUR", "Eurozone"),
		fiat("British Pound", "GBP", "United Kingdom"),
		fiat("Russian Ruble", "RUB", "Russia"),
		fiat("Japanese Yen", "JPY", "Japan"),
		fiat("Swiss Franc", "CHF", "Switzerland"),
		fiat("Chinese Yuan", "CNY", "China"),
		crypto("Bitcoin", "BTC", "SHA-256", 1.12e12),
		crypto("Ethereum", "ETH", "Ethash", 3.72e11),
		crypto("Solana", "SOL", "Proof of History", 6.54e10),
		crypto("Cardano", "ADA", "Ouroboros", 2.15e10),
		crypto("Dogecoin", "DOGE", "Scrypt", 2.0e10),
	}
}

// GetCurrencyByCode returns the registry entry for the code.
func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	c, ok := s.currencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("currency %q: %w", code, apperrors.ErrNotFound)
	}
	return &c, nil
}

// ListCurrencies returns all registered currencies ordered by code.
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	list := make([]domain.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CurrencyCode < list[j].CurrencyCode })
	return list, nil
}

// ValidateCode normalizes a currency code and checks both its format and
// its presence in the registry, returning the canonical uppercase form.
func (s *CurrencyService) ValidateCode(ctx context.Context, code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !currencyCodeRe.MatchString(normalized) {
		return "", fmt.Errorf("%w: currency code %q must be 2-5 uppercase letters", apperrors.ErrValidation, code)
	}
	if _, ok := s.currencies[normalized]; !ok {
		return "", fmt.Errorf("%w: currency %q is not supported", apperrors.ErrValidation, normalized)
	}
	return normalized, nil
}
