// Package memory provides in-memory store implementations used in
// tests and for ephemeral runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// whaleRecord associates a persisted trade with the run that produced it.
type whaleRecord struct {
	runID string
	trade domain.ClassifiedTrade
}

// WhaleTradeStore is an in-memory implementation of storage.WhaleTradeStore.
type WhaleTradeStore struct {
	mu   sync.RWMutex
	data map[string]*whaleRecord // keyed by trade ID
}

// NewWhaleTradeStore creates a new in-memory whale trade store.
func NewWhaleTradeStore() *WhaleTradeStore {
	return &WhaleTradeStore{
		data: make(map[string]*whaleRecord),
	}
}

var _ storage.WhaleTradeStore = (*WhaleTradeStore)(nil)

// Insert adds a classified trade under a run. Returns ErrDuplicateKey if exists.
func (s *WhaleTradeStore) Insert(_ context.Context, runID string, t *domain.ClassifiedTrade) error {
	if t == nil || t.TradeID == "" || runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[t.TradeID] = &whaleRecord{runID: runID, trade: *t}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *WhaleTradeStore) InsertBulk(_ context.Context, runID string, trades []*domain.ClassifiedTrade) error {
	if len(trades) == 0 {
		return nil
	}
	if runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates (existing + intra-batch).
	batchKeys := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TradeID] = struct{}{}
	}

	// Second pass: insert all.
	for _, t := range trades {
		s.data[t.TradeID] = &whaleRecord{runID: runID, trade: *t}
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *WhaleTradeStore) GetByID(_ context.Context, tradeID string) (*domain.ClassifiedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[tradeID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	t := rec.trade
	return &t, nil
}

// GetBySymbol retrieves all trades for a symbol, ordered by timestamp ASC.
func (s *WhaleTradeStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.ClassifiedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ClassifiedTrade
	for _, rec := range s.data {
		if rec.trade.Trade.Symbol == symbol {
			t := rec.trade
			result = append(result, &t)
		}
	}
	sortTrades(result)
	return result, nil
}

// GetByTimeRange retrieves trades for a symbol within [start, end] (inclusive, ms).
func (s *WhaleTradeStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.ClassifiedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ClassifiedTrade
	for _, rec := range s.data {
		ts := rec.trade.Trade.TimestampMs
		if rec.trade.Trade.Symbol == symbol && ts >= start && ts <= end {
			t := rec.trade
			result = append(result, &t)
		}
	}
	sortTrades(result)
	return result, nil
}

// GetByRunID retrieves all trades persisted under a run.
func (s *WhaleTradeStore) GetByRunID(_ context.Context, runID string) ([]*domain.ClassifiedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ClassifiedTrade
	for _, rec := range s.data {
		if rec.runID == runID {
			t := rec.trade
			result = append(result, &t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Trade.Symbol != result[j].Trade.Symbol {
			return result[i].Trade.Symbol < result[j].Trade.Symbol
		}
		return result[i].Trade.TimestampMs < result[j].Trade.TimestampMs
	})
	return result, nil
}

func sortTrades(trades []*domain.ClassifiedTrade) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].Trade.TimestampMs != trades[j].Trade.TimestampMs {
			return trades[i].Trade.TimestampMs < trades[j].Trade.TimestampMs
		}
		return trades[i].TradeID < trades[j].TradeID
	})
}
