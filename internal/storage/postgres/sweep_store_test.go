package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

func testSweep(id, symbol string, startMs int64) *domain.SweepGroup {
	return &domain.SweepGroup{
		SweepID:    id,
		Symbol:     symbol,
		TradeIDs:   []string{"t1", "t2", "t3"},
		StartMs:    startMs,
		EndMs:      startMs + 45_000,
		TotalSize:  180_000,
		TotalValue: 36_000_000,
	}
}

func TestSweepStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSweepStore(pool)
	ctx := context.Background()

	g := testSweep("s1", "AAPL", 1000)
	g.CrossContract = true
	require.NoError(t, store.Insert(ctx, "run1", g))

	got, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "AAPL", got.Symbol)
	require.Equal(t, []string{"t1", "t2", "t3"}, got.TradeIDs)
	require.True(t, got.CrossContract)
	require.Equal(t, int64(46_000), got.EndMs)
}

func TestSweepStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSweepStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "run1", testSweep("s1", "AAPL", 1000)))

	err := store.Insert(ctx, "run1", testSweep("s1", "AAPL", 1000))
	require.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestSweepStore_GetBySymbolOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSweepStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "run1", []*domain.SweepGroup{
		testSweep("s2", "AAPL", 5000),
		testSweep("s1", "AAPL", 1000),
		testSweep("s3", "XOM", 2000),
	}))

	got, err := store.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "s1", got[0].SweepID)
	require.Equal(t, "s2", got[1].SweepID)

	byRun, err := store.GetByRunID(ctx, "run1")
	require.NoError(t, err)
	require.Len(t, byRun, 3)
	require.Equal(t, "AAPL", byRun[0].Symbol)
	require.Equal(t, "XOM", byRun[2].Symbol)
}
