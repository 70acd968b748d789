package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

// RateResponse describes a resolved currency pair rate.
type RateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	Source           string          `json:"source,omitempty"`
	Derived          bool            `json:"derived"` // True when computed as a reciprocal
}

// ToRateResponse converts a domain.Rate to a RateResponse DTO.
func ToRateResponse(rate *domain.Rate) RateResponse {
	return RateResponse{
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		UpdatedAt:        rate.UpdatedAt,
		Source:           rate.Source,
		Derived:          rate.Derived,
	}
}

// ListRatesParams filters the cached rate listing.
type ListRatesParams struct {
	CurrencyCode string // Keep only pairs involving this code, when set
	Top          int    // Keep the N highest rates, when > 0
}
