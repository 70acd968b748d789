package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/auditlog"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// WalletService orchestrates the buy, sell and valuation use cases over the
// portfolio and rate stores.
//
// All trades are priced with the currency→base rate: buying costs
// amount * rate(currency, base) in base currency, selling yields the same
// in proceeds. Buying the base currency itself is a plain deposit and
// selling it a plain withdrawal, with no conversion.
//
// Every mutating operation works on an in-memory copy of the portfolio and
// persists it only after all checks pass, so no failure leaves a partial
// mutation behind.
type WalletService struct {
	portfolioRepo   ports.PortfolioRepository
	txnRepo         ports.TransactionRepository
	userRepo        ports.UserRepository
	rateService     ports.RateSvc
	currencyService ports.CurrencySvc
	baseCurrency    string
	audit           *auditlog.Recorder
	logger          *slog.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(
	portfolioRepo ports.PortfolioRepository,
	txnRepo ports.TransactionRepository,
	userRepo ports.UserRepository,
	rateService ports.RateSvc,
	currencyService ports.CurrencySvc,
	baseCurrency string,
	audit *auditlog.Recorder,
	logger *slog.Logger,
) *WalletService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletService{
		portfolioRepo:   portfolioRepo,
		txnRepo:         txnRepo,
		userRepo:        userRepo,
		rateService:     rateService,
		currencyService: currencyService,
		baseCurrency:    baseCurrency,
		audit:           audit,
		logger:          logger,
	}
}

var _ ports.WalletSvc = (*WalletService)(nil)

// Buy credits amount of the requested currency. For the base currency this
// is a direct deposit; for any other currency the cost in base currency is
// debited first, failing with ErrInsufficientFunds when the base balance
// cannot cover it.
func (s *WalletService) Buy(ctx context.Context, userID int, req dto.TradeRequest) (receipt *dto.BuyReceipt, err error) {
	start := time.Now()
	defer func() {
		s.audit.Record(ctx, "BUY", userID, start, err,
			slog.String("currency", req.CurrencyCode), slog.String("amount", req.Amount.String()))
	}()

	code, amount, err := s.validateTrade(ctx, req)
	if err != nil {
		return nil, err
	}

	portfolio, err := s.getOrCreatePortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	if code == s.baseCurrency {
		wallet := portfolio.AddCurrency(code)
		if err = wallet.Deposit(amount); err != nil {
			return nil, err
		}
		if err = s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
			return nil, fmt.Errorf("failed to save portfolio: %w", err)
		}
		s.recordTransaction(ctx, userID, domain.ActionDeposit, code, code, amount, decimal.Decimal{}, decimal.Decimal{})
		return &dto.BuyReceipt{
			CurrencyCode:     code,
			Amount:           amount,
			NewBalance:       wallet.Balance,
			BaseBalanceAfter: wallet.Balance,
		}, nil
	}

	rate, err := s.rateService.GetRate(ctx, code, s.baseCurrency)
	if err != nil {
		return nil, err
	}
	cost := amount.Mul(rate.Rate)

	baseWallet := portfolio.AddCurrency(s.baseCurrency)
	if baseWallet.Balance.LessThan(cost) {
		return nil, apperrors.NewInsufficientFundsError(baseWallet.Balance, cost, s.baseCurrency)
	}
	if err = baseWallet.Withdraw(cost); err != nil {
		return nil, err
	}
	wallet := portfolio.AddCurrency(code)
	if err = wallet.Deposit(amount); err != nil {
		return nil, err
	}

	if err = s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.recordTransaction(ctx, userID, domain.ActionBuy, s.baseCurrency, code, amount, rate.Rate, cost)

	return &dto.BuyReceipt{
		CurrencyCode:     code,
		Amount:           amount,
		Rate:             &rate.Rate,
		Cost:             &cost,
		NewBalance:       wallet.Balance,
		BaseBalanceAfter: baseWallet.Balance,
	}, nil
}

// Sell debits amount of the requested currency and, unless it is the base
// currency, credits the proceeds to the base wallet. A missing wallet
// counts as a zero balance and fails with ErrInsufficientFunds.
func (s *WalletService) Sell(ctx context.Context, userID int, req dto.TradeRequest) (receipt *dto.SellReceipt, err error) {
	start := time.Now()
	defer func() {
		s.audit.Record(ctx, "SELL", userID, start, err,
			slog.String("currency", req.CurrencyCode), slog.String("amount", req.Amount.String()))
	}()

	code, amount, err := s.validateTrade(ctx, req)
	if err != nil {
		return nil, err
	}

	portfolio, err := s.getOrCreatePortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	wallet, ok := portfolio.Wallet(code)
	if !ok || wallet.Balance.LessThan(amount) {
		available := decimal.Zero
		if ok {
			available = wallet.Balance
		}
		return nil, apperrors.NewInsufficientFundsError(available, amount, code)
	}

	if code == s.baseCurrency {
		if err = wallet.Withdraw(amount); err != nil {
			return nil, err
		}
		if err = s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
			return nil, fmt.Errorf("failed to save portfolio: %w", err)
		}
		s.recordTransaction(ctx, userID, domain.ActionWithdraw, code, code, amount, decimal.Decimal{}, decimal.Decimal{})
		return &dto.SellReceipt{
			CurrencyCode:     code,
			Amount:           amount,
			Proceeds:         amount,
			NewBalance:       wallet.Balance,
			BaseBalanceAfter: wallet.Balance,
		}, nil
	}

	rate, err := s.rateService.GetRate(ctx, code, s.baseCurrency)
	if err != nil {
		return nil, err
	}
	proceeds := amount.Mul(rate.Rate)

	if err = wallet.Withdraw(amount); err != nil {
		return nil, err
	}
	baseWallet := portfolio.AddCurrency(s.baseCurrency)
	if err = baseWallet.Deposit(proceeds); err != nil {
		return nil, err
	}

	if err = s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.recordTransaction(ctx, userID, domain.ActionSell, code, s.baseCurrency, amount, rate.Rate, proceeds)

	return &dto.SellReceipt{
		CurrencyCode:     code,
		Amount:           amount,
		Rate:             &rate.Rate,
		Proceeds:         proceeds,
		NewBalance:       wallet.Balance,
		BaseBalanceAfter: baseWallet.Balance,
	}, nil
}

// Valuation converts every held balance to the base currency and sums the
// total. A missing rate for any held currency aborts the whole valuation;
// there is no partial report.
func (s *WalletService) Valuation(ctx context.Context, userID int, baseCurrency string) (*dto.PortfolioReport, error) {
	if baseCurrency == "" {
		baseCurrency = s.baseCurrency
	}
	base, err := s.currencyService.ValidateCode(ctx, baseCurrency)
	if err != nil {
		return nil, err
	}

	portfolio, err := s.getOrCreatePortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &dto.PortfolioReport{
		UserID:       userID,
		BaseCurrency: base,
		TotalValue:   decimal.Zero,
	}

	if user, err := s.userRepo.FindUserByID(ctx, userID); err == nil {
		report.Username = user.Username
	}

	for _, code := range portfolio.CurrencyCodes() {
		wallet := portfolio.Wallets[code]

		info := fmt.Sprintf("Unknown currency: %s", code)
		if currency, err := s.currencyService.GetCurrencyByCode(ctx, code); err == nil {
			info = currency.DisplayInfo()
		}

		converted := wallet.Balance
		if code != base {
			rate, err := s.rateService.GetRate(ctx, code, base)
			if err != nil {
				return nil, err
			}
			converted = wallet.Balance.Mul(rate.Rate)
		}

		report.Positions = append(report.Positions, dto.Position{
			CurrencyCode: code,
			Balance:      wallet.Balance,
			ValueInBase:  converted,
			CurrencyInfo: info,
		})
		report.TotalValue = report.TotalValue.Add(converted)
	}

	if refreshed, err := s.rateService.LastRefresh(ctx); err == nil {
		report.RatesRefreshed = refreshed
	}

	return report, nil
}

// History returns the user's recorded transactions in insertion order.
func (s *WalletService) History(ctx context.Context, userID int) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	return txns, nil
}

func (s *WalletService) validateTrade(ctx context.Context, req dto.TradeRequest) (string, decimal.Decimal, error) {
	if err := dto.Validate(req); err != nil {
		return "", decimal.Decimal{}, err
	}
	code, err := s.currencyService.ValidateCode(ctx, req.CurrencyCode)
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return "", decimal.Decimal{}, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	return code, req.Amount, nil
}

// getOrCreatePortfolio lazily creates a portfolio with a zero base-currency
// wallet for users registered before portfolios existed.
func (s *WalletService) getOrCreatePortfolio(ctx context.Context, userID int) (*domain.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err == nil {
		return portfolio, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	created := domain.NewPortfolio(userID)
	created.AddCurrency(s.baseCurrency)
	if err := s.portfolioRepo.SavePortfolio(ctx, *created); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}
	return created, nil
}

// recordTransaction appends to the history. The history is auxiliary:
// a failed append is logged and never fails the completed trade.
func (s *WalletService) recordTransaction(ctx context.Context, userID int, action domain.TransactionAction, fromCode, toCode string, amount, rate, total decimal.Decimal) {
	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		UserID:           userID,
		Action:           action,
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Amount:           amount,
		Rate:             rate,
		Total:            total,
		Timestamp:        time.Now(),
	}
	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.logger.WarnContext(ctx, "failed to record transaction",
			slog.String("action", string(action)), slog.Int("user_id", userID), slog.String("error", err.Error()))
	}
}
