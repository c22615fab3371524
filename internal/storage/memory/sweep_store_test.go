package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

func sweep(id, symbol string, startMs int64) *domain.SweepGroup {
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

func TestSweepStore_InsertAndGet(t *testing.T) {
	store := NewSweepStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "run1", sweep("s1", "AAPL", 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Symbol != "AAPL" || len(got.TradeIDs) != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestSweepStore_DuplicateKey(t *testing.T) {
	store := NewSweepStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "run1", sweep("s1", "AAPL", 1000)); err != nil {
		t.Fatal(err)
	}
	err := store.Insert(ctx, "run1", sweep("s1", "AAPL", 1000))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestSweepStore_GetBySymbolOrdered(t *testing.T) {
	store := NewSweepStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "run1", []*domain.SweepGroup{
		sweep("s2", "AAPL", 5000),
		sweep("s1", "AAPL", 1000),
		sweep("s3", "XOM", 2000),
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetBySymbol(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetBySymbol failed: %v", err)
	}
	if len(got) != 2 || got[0].SweepID != "s1" || got[1].SweepID != "s2" {
		t.Errorf("got %+v", got)
	}
}

func TestSweepStore_GetByRunID(t *testing.T) {
	store := NewSweepStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "run1", sweep("s1", "XOM", 1000)); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, "run1", sweep("s2", "AAPL", 2000)); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, "run2", sweep("s3", "AAPL", 3000)); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 2 || got[0].Symbol != "AAPL" || got[1].Symbol != "XOM" {
		t.Errorf("got %+v", got)
	}
}

func TestSweepStore_CopyOnRead(t *testing.T) {
	store := NewSweepStore()
	ctx := context.Background()

	if err := store.Insert(ctx, "run1", sweep("s1", "AAPL", 1000)); err != nil {
		t.Fatal(err)
	}

	got, _ := store.GetByID(ctx, "s1")
	got.TradeIDs[0] = "mutated"

	again, _ := store.GetByID(ctx, "s1")
	if again.TradeIDs[0] != "t1" {
		t.Errorf("Store leaked internal state: %s", again.TradeIDs[0])
	}
}
