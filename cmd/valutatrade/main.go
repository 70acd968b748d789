package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valutatrade/valutatrade-hub/internal/auditlog"
	"github.com/valutatrade/valutatrade-hub/internal/cli"
	"github.com/valutatrade/valutatrade-hub/internal/core/services"
	"github.com/valutatrade/valutatrade-hub/internal/platform/config"
	"github.com/valutatrade/valutatrade-hub/internal/repositories/jsonstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()
	slog.SetDefault(logger)

	store, err := jsonstore.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data store: %w", err)
	}

	userRepo := jsonstore.NewUserRepository(store)
	portfolioRepo := jsonstore.NewPortfolioRepository(store)
	rateRepo := jsonstore.NewRateRepository(store)
	txnRepo := jsonstore.NewTransactionRepository(store)

	audit := auditlog.NewRecorder(logger)

	currencyService := services.NewCurrencyService(services.DefaultCurrencies())
	rateService := services.NewRateService(rateRepo, currencyService, cfg.RatesTTL, logger)
	userService := services.NewUserService(userRepo, portfolioRepo, cfg.BaseCurrency, audit)
	walletService := services.NewWalletService(
		portfolioRepo, txnRepo, userRepo,
		rateService, currencyService,
		cfg.BaseCurrency, audit, logger,
	)

	shell := cli.NewShell(userService, walletService, rateService, currencyService, cfg.BaseCurrency, os.Stdin, os.Stdout)
	return shell.Run(context.Background())
}

// newLogger builds the structured action logger. It appends JSON lines to the
// configured log file, falling back to stderr when the file cannot be opened
// so that actions are never silently unlogged.
func newLogger(cfg *config.Config) (*slog.Logger, func()) {
	level := slog.LevelDebug
	if cfg.IsProduction {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: cannot create log directory, logging to stderr:", err)
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), func() {}
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: cannot open log file, logging to stderr:", err)
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), func() {}
	}

	return slog.New(slog.NewJSONHandler(f, opts)), func() { f.Close() }
}
