package jsonstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/repositories/jsonstore"
)

func newTestStore(t *testing.T) (*jsonstore.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := jsonstore.NewStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewStore_SeedsMissingFiles(t *testing.T) {
	_, dir := newTestStore(t)

	for _, name := range []string{"users.json", "portfolios.json", "rates.json", "transactions.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to be seeded", name)
	}
}

func TestNewStore_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	seeded := `[{"user_id":5,"username":"alice","password_hash":"h","registered_at":"2026-08-27T10:00:00Z"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(seeded), 0o644))

	store, err := jsonstore.NewStore(dir)
	require.NoError(t, err)

	repo := jsonstore.NewUserRepository(store)
	user, err := repo.FindUserByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUserRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := jsonstore.NewUserRepository(store)

	id, err := repo.NextUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	user := domain.User{UserID: 1, Username: "alice", PasswordHash: "hash", RegisteredAt: time.Now().UTC()}
	require.NoError(t, repo.SaveUser(ctx, user))

	byName, err := repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, byName.UserID)
	assert.Equal(t, "hash", byName.PasswordHash)

	id, err = repo.NextUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	_, err = repo.FindUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.FindUserByID(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_SaveReplacesByID(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := jsonstore.NewUserRepository(store)

	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: 1, Username: "alice", PasswordHash: "old"}))
	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: 1, Username: "alice", PasswordHash: "new"}))

	user, err := repo.FindUserByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", user.PasswordHash)

	id, err := repo.NextUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, id)
}

func TestUserRepository_NextUserIDSkipsGaps(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := jsonstore.NewUserRepository(store)

	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: 3, Username: "carol"}))
	require.NoError(t, repo.SaveUser(ctx, domain.User{UserID: 7, Username: "dave"}))

	id, err := repo.NextUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, id)
}

func TestPortfolioRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := jsonstore.NewPortfolioRepository(store)

	_, err := repo.FindPortfolioByUserID(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	p := domain.NewPortfolio(1)
	p.AddCurrency("USD").Balance = decimal.RequireFromString("2033.1395")
	p.AddCurrency("BTC").Balance = decimal.RequireFromString("0.05")
	require.NoError(t, repo.SavePortfolio(ctx, *p))

	loaded, err := repo.FindPortfolioByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.UserID)

	usd, ok := loaded.Wallet("USD")
	require.True(t, ok)
	assert.True(t, usd.Balance.Equal(decimal.RequireFromString("2033.1395")))
	btc, ok := loaded.Wallet("BTC")
	require.True(t, ok)
	assert.True(t, btc.Balance.Equal(decimal.RequireFromString("0.05")))
}

func TestPortfolioRepository_SaveReplacesInFull(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := jsonstore.NewPortfolioRepository(store)

	p := domain.NewPortfolio(1)
	p.AddCurrency("USD").Balance = decimal.RequireFromString("100")
	p.AddCurrency("ETH").Balance = decimal.RequireFromString("2")
	require.NoError(t, repo.SavePortfolio(ctx, *p))

	replacement := domain.NewPortfolio(1)
	replacement.AddCurrency("USD").Balance = decimal.RequireFromString("50")
	require.NoError(t, repo.SavePortfolio(ctx, *replacement))

	loaded, err := repo.FindPortfolioByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"USD"}, loaded.CurrencyCodes())

	// Other users' portfolios are untouched by a save.
	other := domain.NewPortfolio(2)
	other.AddCurrency("USD").Balance = decimal.RequireFromString("9")
	require.NoError(t, repo.SavePortfolio(ctx, *other))
	loaded, err = repo.FindPortfolioByUserID(ctx, 1)
	require.NoError(t, err)
	usd, _ := loaded.Wallet("USD")
	assert.True(t, usd.Balance.Equal(decimal.RequireFromString("50")))
}

func TestRateRepository_ReadsSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	snapshot := `{
  "pairs": {
    "BTC_USD": {"rate": 59337.21, "updated_at": "2026-08-27T10:00:00Z", "source": "coingecko"},
    "EUR_USD": {"rate": 1.08, "updated_at": "2026-08-27T10:00:00Z", "source": "ecb"}
  },
  "last_refresh": "2026-08-27T10:00:00Z"
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rates.json"), []byte(snapshot), 0o644))
	store, err := jsonstore.NewStore(dir)
	require.NoError(t, err)
	repo := jsonstore.NewRateRepository(store)

	rate, err := repo.FindRate(ctx, "BTC", "USD")
	require.NoError(t, err)
	assert.Equal(t, "BTC", rate.FromCurrencyCode)
	assert.Equal(t, "USD", rate.ToCurrencyCode)
	assert.True(t, rate.Rate.Equal(decimal.RequireFromString("59337.21")))
	assert.Equal(t, "coingecko", rate.Source)

	// Exact direction only; derivation is a service concern.
	_, err = repo.FindRate(ctx, "USD", "BTC")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	rates, err := repo.ListRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "BTC", rates[0].FromCurrencyCode)
	assert.Equal(t, "EUR", rates[1].FromCurrencyCode)

	refreshed, err := repo.LastRefresh(ctx)
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.Equal(t, 2026, refreshed.Year())
}

func TestRateRepository_EmptySnapshot(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := jsonstore.NewRateRepository(store)

	_, err := repo.FindRate(ctx, "BTC", "USD")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	rates, err := repo.ListRates(ctx)
	require.NoError(t, err)
	assert.Empty(t, rates)

	refreshed, err := repo.LastRefresh(ctx)
	require.NoError(t, err)
	assert.Nil(t, refreshed)
}

func TestTransactionRepository_AppendAndFilter(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := jsonstore.NewTransactionRepository(store)

	txns := []domain.Transaction{
		{TransactionID: "t1", UserID: 1, Action: domain.ActionDeposit, ToCurrencyCode: "USD", Amount: decimal.RequireFromString("1000"), Timestamp: time.Now().UTC()},
		{TransactionID: "t2", UserID: 2, Action: domain.ActionDeposit, ToCurrencyCode: "USD", Amount: decimal.RequireFromString("5"), Timestamp: time.Now().UTC()},
		{TransactionID: "t3", UserID: 1, Action: domain.ActionBuy, FromCurrencyCode: "USD", ToCurrencyCode: "BTC", Amount: decimal.RequireFromString("0.05"), Rate: decimal.RequireFromString("59337.21"), Total: decimal.RequireFromString("2966.8605"), Timestamp: time.Now().UTC()},
	}
	for _, txn := range txns {
		require.NoError(t, repo.SaveTransaction(ctx, txn))
	}

	mine, err := repo.ListTransactionsByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "t1", mine[0].TransactionID)
	assert.Equal(t, "t3", mine[1].TransactionID)
	assert.True(t, mine[1].Total.Equal(decimal.RequireFromString("2966.8605")))

	none, err := repo.ListTransactionsByUserID(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, none)
}
