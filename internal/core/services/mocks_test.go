package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID int) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) NextUserID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- Mock PortfolioRepository ---

type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID int) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

// --- Mock RateRepository ---

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindRate(ctx context.Context, fromCode, toCode string) (*domain.Rate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *MockRateRepository) ListRates(ctx context.Context) ([]domain.Rate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateRepository) LastRefresh(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock RateSvc ---

type MockRateSvc struct {
	mock.Mock
}

func (m *MockRateSvc) GetRate(ctx context.Context, fromCode, toCode string) (*dto.RateResponse, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RateResponse), args.Error(1)
}

func (m *MockRateSvc) ListRates(ctx context.Context, params dto.ListRatesParams) ([]dto.RateResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RateResponse), args.Error(1)
}

func (m *MockRateSvc) LastRefresh(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}
