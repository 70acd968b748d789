package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate stores the conversion multiplier between two currencies.
// Rates are read-only reference data during a session; a pair that is only
// stored in one direction is served in the other direction as its
// reciprocal, with Derived set.
type Rate struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // Always positive
	UpdatedAt        time.Time       `json:"updatedAt"`
	Source           string          `json:"source,omitempty"`
	Derived          bool            `json:"derived,omitempty"` // Computed as 1/stored reverse rate
}

// Inverse returns the reciprocal rate for the swapped pair.
func (r Rate) Inverse() Rate {
	return Rate{
		FromCurrencyCode: r.ToCurrencyCode,
		ToCurrencyCode:   r.FromCurrencyCode,
		Rate:             decimal.NewFromInt(1).Div(r.Rate),
		UpdatedAt:        r.UpdatedAt,
		Source:           r.Source,
		Derived:          true,
	}
}
