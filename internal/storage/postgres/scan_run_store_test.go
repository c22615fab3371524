package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

func testRun(id string, finishedMs, windowEndMs int64) *domain.ScanRun {
	return &domain.ScanRun{
		RunID:          id,
		StartedAtMs:    finishedMs - 60_000,
		FinishedAtMs:   finishedMs,
		WindowStartMs:  windowEndMs - 86_400_000,
		WindowEndMs:    windowEndMs,
		TradingDays:    1,
		SymbolsScanned: 100,
		SymbolsFailed:  2,
		TradeCount:     42,
		TotalNotional:  500_000_000,
		SweepCount:     3,
		Sentiment:      domain.SentimentBullish,
		NetValue:       120_000_000,
	}
}

func TestScanRunStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScanRunStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("r1", 2000, 10_000)))

	got, err := store.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, 42, got.TradeCount)
	require.Equal(t, domain.SentimentBullish, got.Sentiment)
	require.False(t, got.CreatedAt.IsZero())
}

func TestScanRunStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScanRunStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("r1", 2000, 10_000)))

	err := store.Insert(ctx, testRun("r1", 3000, 11_000))
	require.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestScanRunStore_GetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScanRunStore(pool)
	ctx := context.Background()

	_, err := store.GetLatest(ctx)
	require.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, store.Insert(ctx, testRun("r1", 1000, 10_000)))
	require.NoError(t, store.Insert(ctx, testRun("r3", 3000, 30_000)))
	require.NoError(t, store.Insert(ctx, testRun("r2", 2000, 20_000)))

	got, err := store.GetLatest(ctx)
	require.NoError(t, err)
	require.Equal(t, "r3", got.RunID)
}

func TestScanRunStore_GetByWindowRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScanRunStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("r1", 1000, 10_000)))
	require.NoError(t, store.Insert(ctx, testRun("r2", 2000, 20_000)))
	require.NoError(t, store.Insert(ctx, testRun("r3", 3000, 30_000)))

	got, err := store.GetByWindowRange(ctx, 10_000, 20_000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "r1", got[0].RunID)
	require.Equal(t, "r2", got[1].RunID)
}
