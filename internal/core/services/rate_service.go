package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// RateService provides rate lookups over the stored snapshot. A pair stored
// in one direction only is served in the other direction as its reciprocal.
type RateService struct {
	rateRepo        ports.RateRepository
	currencyService ports.CurrencySvc
	ttl             time.Duration
	logger          *slog.Logger
}

// NewRateService creates a RateService. Rates older than ttl are served
// with a staleness warning in the log, never an error.
func NewRateService(rateRepo ports.RateRepository, currencyService ports.CurrencySvc, ttl time.Duration, logger *slog.Logger) *RateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateService{
		rateRepo:        rateRepo,
		currencyService: currencyService,
		ttl:             ttl,
		logger:          logger,
	}
}

var _ ports.RateSvc = (*RateService)(nil)

// GetRate resolves the rate for a currency pair. Lookup order: exact pair,
// then the reverse pair served as its reciprocal. Both currencies must be
// registered. A missing pair in both directions yields ErrRateNotFound.
func (s *RateService) GetRate(ctx context.Context, fromCode, toCode string) (*dto.RateResponse, error) {
	from, err := s.currencyService.ValidateCode(ctx, fromCode)
	if err != nil {
		return nil, err
	}
	to, err := s.currencyService.ValidateCode(ctx, toCode)
	if err != nil {
		return nil, err
	}

	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	rate, err := s.rateRepo.FindRate(ctx, from, to)
	if err == nil {
		s.warnIfStale(ctx, rate)
		resp := dto.ToRateResponse(rate)
		return &resp, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up rate %s/%s: %w", from, to, err)
	}

	reverse, err := s.rateRepo.FindRate(ctx, to, from)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", from, to, apperrors.ErrRateNotFound)
		}
		return nil, fmt.Errorf("failed to look up rate %s/%s: %w", to, from, err)
	}

	derived := reverse.Inverse()
	s.warnIfStale(ctx, &derived)
	resp := dto.ToRateResponse(&derived)
	return &resp, nil
}

// ListRates returns the cached pairs, optionally filtered to pairs
// involving one currency and truncated to the N highest rates.
func (s *RateService) ListRates(ctx context.Context, params dto.ListRatesParams) ([]dto.RateResponse, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}

	filter := strings.ToUpper(strings.TrimSpace(params.CurrencyCode))
	var out []dto.RateResponse
	for i := range rates {
		r := rates[i]
		if filter != "" && r.FromCurrencyCode != filter && r.ToCurrencyCode != filter {
			continue
		}
		out = append(out, dto.ToRateResponse(&r))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rate.GreaterThan(out[j].Rate)
	})
	if params.Top > 0 && len(out) > params.Top {
		out = out[:params.Top]
	}
	return out, nil
}

// LastRefresh reports when the rate snapshot was last written.
func (s *RateService) LastRefresh(ctx context.Context) (*time.Time, error) {
	return s.rateRepo.LastRefresh(ctx)
}

func (s *RateService) warnIfStale(ctx context.Context, rate *domain.Rate) {
	if s.ttl <= 0 || rate.UpdatedAt.IsZero() {
		return
	}
	age := time.Since(rate.UpdatedAt)
	if age > s.ttl {
		s.logger.WarnContext(ctx, "serving stale rate",
			slog.String("pair", rate.FromCurrencyCode+"_"+rate.ToCurrencyCode),
			slog.Duration("age", age),
			slog.Duration("ttl", s.ttl),
		)
	}
}
