package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/auditlog"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
	"github.com/valutatrade/valutatrade-hub/internal/utils"
)

// UserService provides registration, authentication and password changes.
// Registration also creates the user's portfolio, pre-seeded with a zero
// base-currency wallet.
type UserService struct {
	userRepo      ports.UserRepository
	portfolioRepo ports.PortfolioRepository
	baseCurrency  string
	audit         *auditlog.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(userRepo ports.UserRepository, portfolioRepo ports.PortfolioRepository, baseCurrency string, audit *auditlog.Recorder) *UserService {
	return &UserService{
		userRepo:      userRepo,
		portfolioRepo: portfolioRepo,
		baseCurrency:  baseCurrency,
		audit:         audit,
	}
}

var _ ports.UserSvc = (*UserService)(nil)

// Register creates a new user with the next sequential ID, failing with
// ErrDuplicate when the username is taken. The user store is not modified
// on any failure path.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (user *domain.User, err error) {
	start := time.Now()
	defer func() { s.audit.Record(ctx, "REGISTER", userIDOrZero(user), start, err) }()

	if err = dto.Validate(req); err != nil {
		return nil, err
	}

	_, err = s.userRepo.FindUserByUsername(ctx, req.Username)
	if err == nil {
		return nil, fmt.Errorf("%w: username %q is already taken", apperrors.ErrDuplicate, req.Username)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.userRepo.NextUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user ID: %w", err)
	}

	newUser := domain.User{
		UserID:       userID,
		Username:     req.Username,
		PasswordHash: hash,
		RegisteredAt: time.Now(),
	}
	if err = s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	portfolio := domain.NewPortfolio(userID)
	portfolio.AddCurrency(s.baseCurrency)
	if err = s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	return &newUser, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords both fail with ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, req dto.LoginRequest) (user *domain.User, err error) {
	start := time.Now()
	defer func() { s.audit.Record(ctx, "LOGIN", userIDOrZero(user), start, err) }()

	if err = dto.Validate(req); err != nil {
		return nil, err
	}

	found, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, found.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return found, nil
}

// ChangePassword replaces the user's credential after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID int, req dto.ChangePasswordRequest) (err error) {
	start := time.Now()
	defer func() { s.audit.Record(ctx, "CHANGE_PASSWORD", userID, start, err) }()

	if err = dto.Validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	if err = s.userRepo.SaveUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func userIDOrZero(user *domain.User) int {
	if user == nil {
		return 0
	}
	return user.UserID
}
