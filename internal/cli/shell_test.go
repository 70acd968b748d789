package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutatrade-hub/internal/auditlog"
	"github.com/valutatrade/valutatrade-hub/internal/cli"
	"github.com/valutatrade/valutatrade-hub/internal/core/services"
	"github.com/valutatrade/valutatrade-hub/internal/repositories/jsonstore"
)

const testRatesSnapshot = `{
  "pairs": {
    "BTC_USD": {"rate": 59337.21, "updated_at": "2026-08-27T10:00:00Z", "source": "coingecko"},
    "USD_EUR": {"rate": 0.9, "updated_at": "2026-08-27T10:00:00Z", "source": "ecb"}
  },
  "last_refresh": "2026-08-27T10:00:00Z"
}`

// runShell wires real services over a temp data dir and runs the given
// command script, returning everything the shell printed.
func runShell(t *testing.T, script string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rates.json"), []byte(testRatesSnapshot), 0o644))

	store, err := jsonstore.NewStore(dir)
	require.NoError(t, err)

	userRepo := jsonstore.NewUserRepository(store)
	portfolioRepo := jsonstore.NewPortfolioRepository(store)
	rateRepo := jsonstore.NewRateRepository(store)
	txnRepo := jsonstore.NewTransactionRepository(store)

	currencySvc := services.NewCurrencyService(services.DefaultCurrencies())
	rateSvc := services.NewRateService(rateRepo, currencySvc, time.Hour, nil)
	userSvc := services.NewUserService(userRepo, portfolioRepo, "USD", auditlog.NewRecorder(nil))
	walletSvc := services.NewWalletService(
		portfolioRepo, txnRepo, userRepo,
		rateSvc, currencySvc,
		"USD", auditlog.NewRecorder(nil), nil,
	)

	var out bytes.Buffer
	shell := cli.NewShell(userSvc, walletSvc, rateSvc, currencySvc, "USD", strings.NewReader(script), &out)
	require.NoError(t, shell.Run(context.Background()))
	return out.String()
}

func TestShell_RegisterLoginTradeRoundTrip(t *testing.T) {
	script := strings.Join([]string{
		"register alice s3cret",
		"login alice s3cret",
		"buy USD 5000",
		"buy BTC 0.05",
		"portfolio",
		"sell BTC 0.05",
		"history",
		"logout",
		"exit",
	}, "\n") + "\n"

	out := runShell(t, script)

	assert.Contains(t, out, `User "alice" registered (id=1)`)
	assert.Contains(t, out, `Logged in as "alice" (id=1)`)
	assert.Contains(t, out, "Deposited 5000.00 USD")
	assert.Contains(t, out, "Bought 0.05000000 BTC")
	assert.Contains(t, out, "Cost: $2,966.86")
	assert.Contains(t, out, `Portfolio of "alice" (base: USD)`)
	assert.Contains(t, out, "[CRYPTO] BTC")
	assert.Contains(t, out, "TOTAL: $5,000.00")
	assert.Contains(t, out, "Proceeds: $2,966.86")
	assert.Contains(t, out, "DEPOSIT")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "SELL")
	assert.Contains(t, out, "Goodbye, alice!")
	assert.Contains(t, out, "Bye!")
}

func TestShell_TradeRequiresLogin(t *testing.T) {
	out := runShell(t, "buy BTC 1\nportfolio\nexit\n")

	assert.Contains(t, out, "you must log in first")
	assert.NotContains(t, out, "Bought")
}

func TestShell_InsufficientFundsMessage(t *testing.T) {
	script := strings.Join([]string{
		"register bob pass",
		"login bob pass",
		"buy USD 1000",
		"buy BTC 0.05",
		"exit",
	}, "\n") + "\n"

	out := runShell(t, script)

	assert.Contains(t, out, "insufficient funds")
	assert.Contains(t, out, "required 2966.8605 USD")
}

func TestShell_ReciprocalRateLookup(t *testing.T) {
	out := runShell(t, "rate USD BTC\nexit\n")

	assert.Contains(t, out, "Rate USD -> BTC")
	assert.Contains(t, out, "reciprocal")
}

func TestShell_RatesListing(t *testing.T) {
	out := runShell(t, "rates --top 1\nexit\n")

	assert.Contains(t, out, "BTC_USD")
	assert.NotContains(t, out, "USD_EUR")
}

func TestShell_DuplicateRegistration(t *testing.T) {
	script := "register carol pass\nregister carol pass\nexit\n"

	out := runShell(t, script)

	assert.Contains(t, out, `username "carol" is already taken`)
}

func TestShell_InvalidCredentials(t *testing.T) {
	script := "register dave pass\nlogin dave wrong\nexit\n"

	out := runShell(t, script)

	assert.Contains(t, out, "invalid username or password")
}

func TestShell_UnknownCommand(t *testing.T) {
	out := runShell(t, "frobnicate\nexit\n")

	assert.Contains(t, out, `Unknown command "frobnicate"`)
}

func TestShell_SessionState(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	store, err := jsonstore.NewStore(dir)
	require.NoError(t, err)

	userRepo := jsonstore.NewUserRepository(store)
	portfolioRepo := jsonstore.NewPortfolioRepository(store)
	userSvc := services.NewUserService(userRepo, portfolioRepo, "USD", auditlog.NewRecorder(nil))

	var out bytes.Buffer
	shell := cli.NewShell(userSvc, nil, nil, services.NewCurrencyService(services.DefaultCurrencies()), "USD", strings.NewReader(""), &out)

	require.NoError(t, shell.Dispatch(ctx, "register", []string{"erin", "pass"}))
	assert.Nil(t, shell.CurrentUser(), "registering must not log in")

	require.NoError(t, shell.Dispatch(ctx, "login", []string{"erin", "pass"}))
	require.NotNil(t, shell.CurrentUser())
	assert.Equal(t, "erin", shell.CurrentUser().Username)

	require.NoError(t, shell.Dispatch(ctx, "logout", nil))
	assert.Nil(t, shell.CurrentUser())
}

func TestShell_EOFEndsSession(t *testing.T) {
	out := runShell(t, "help\n")

	assert.Contains(t, out, "Commands:")
}
