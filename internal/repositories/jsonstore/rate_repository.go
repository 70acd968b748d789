package jsonstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

// rateRecord is one stored pair entry inside rates.json.
type rateRecord struct {
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
	Source    string          `json:"source,omitempty"`
}

// ratesSnapshot is the full on-disk rates document: pair keys of the form
// "FROM_TO" map to rate entries.
type ratesSnapshot struct {
	Pairs       map[string]rateRecord `json:"pairs"`
	LastRefresh *time.Time            `json:"last_refresh"`
}

func pairKey(fromCode, toCode string) string {
	return fromCode + "_" + toCode
}

func toDomainRate(key string, r rateRecord) (domain.Rate, error) {
	from, to, ok := strings.Cut(key, "_")
	if !ok {
		return domain.Rate{}, fmt.Errorf("malformed pair key %q", key)
	}
	return domain.Rate{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             r.Rate,
		UpdatedAt:        r.UpdatedAt,
		Source:           r.Source,
	}, nil
}

// RateRepository reads the rate snapshot from rates.json.
type RateRepository struct {
	store *Store
}

// NewRateRepository creates a RateRepository on the given store.
func NewRateRepository(store *Store) *RateRepository {
	return &RateRepository{store: store}
}

var _ ports.RateRepository = (*RateRepository)(nil)

func (r *RateRepository) load() (ratesSnapshot, error) {
	var snap ratesSnapshot
	if err := r.store.readJSON(ratesFile, &snap); err != nil {
		return ratesSnapshot{}, err
	}
	if snap.Pairs == nil {
		snap.Pairs = map[string]rateRecord{}
	}
	return snap, nil
}

// FindRate returns the stored rate for the exact pair direction only.
func (r *RateRepository) FindRate(ctx context.Context, fromCode, toCode string) (*domain.Rate, error) {
	snap, err := r.load()
	if err != nil {
		return nil, err
	}

	key := pairKey(fromCode, toCode)
	record, ok := snap.Pairs[key]
	if !ok {
		return nil, fmt.Errorf("pair %s: %w", key, apperrors.ErrNotFound)
	}

	rate, err := toDomainRate(key, record)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// ListRates returns every stored pair, ordered by pair key.
func (r *RateRepository) ListRates(ctx context.Context) ([]domain.Rate, error) {
	snap, err := r.load()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(snap.Pairs))
	for key := range snap.Pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rates := make([]domain.Rate, 0, len(keys))
	for _, key := range keys {
		rate, err := toDomainRate(key, snap.Pairs[key])
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

func (r *RateRepository) LastRefresh(ctx context.Context) (*time.Time, error) {
	snap, err := r.load()
	if err != nil {
		return nil, err
	}
	return snap.LastRefresh, nil
}
