// internal/infrastructure/persistence/journal/repository_test.go
package journal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()
	ds := NewSQLiteService(":memory:")
	require.NoError(t, ds.Start())
	t.Cleanup(func() { _ = ds.Stop() })
	return NewRepository(ds.GetDB())
}

func TestRepository_SaveAndListRecent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, action := range []string{"buy", "sell", "cancel"} {
		e := &Entry{
			UserID:      7,
			Action:      action,
			Symbol:      "BTCUSDT",
			Side:        "BUY",
			Quantity:    decimal.RequireFromString("0.002"),
			QuoteAmount: decimal.NewFromInt(100),
			Status:      StatusOK,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Save(ctx, e))
		assert.Len(t, e.ID, 36)
	}
	require.NoError(t, repo.Save(ctx, &Entry{UserID: 8, Action: "buy", Status: StatusFailed}))

	entries, err := repo.ListRecent(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cancel", entries[0].Action)
	assert.Equal(t, "sell", entries[1].Action)
	assert.True(t, entries[0].Quantity.Equal(decimal.RequireFromString("0.002")))
	assert.True(t, entries[0].CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestRepository_DuplicateID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	e := &Entry{ID: "fixed", UserID: 1, Action: "buy", Status: StatusOK}
	require.NoError(t, repo.Save(ctx, e))

	err := repo.Save(ctx, &Entry{ID: "fixed", UserID: 1, Action: "buy", Status: StatusOK})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JournalRepo.Save")
}

func TestNopRepository(t *testing.T) {
	var repo Repository = NopRepository{}
	require.NoError(t, repo.Save(context.Background(), &Entry{}))
	entries, err := repo.ListRecent(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
