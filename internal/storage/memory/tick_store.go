package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// TickTradeStore is an in-memory implementation of storage.TickTradeStore.
// Duplicate prints (same symbol, timestamp, venue, price, size) collapse
// silently, matching the archive tables.
type TickTradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Trade
}

// NewTickTradeStore creates a new in-memory tick trade archive.
func NewTickTradeStore() *TickTradeStore {
	return &TickTradeStore{
		data: make(map[string]*domain.Trade),
	}
}

var _ storage.TickTradeStore = (*TickTradeStore)(nil)

func tickTradeKey(t *domain.Trade) string {
	return fmt.Sprintf("%s|%d|%s|%.6f|%d", t.Symbol, t.TimestampMs, t.Venue, t.Price, t.Size)
}

// InsertBulk archives a batch of raw prints.
func (s *TickTradeStore) InsertBulk(_ context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range trades {
		if t == nil || t.Symbol == "" {
			return storage.ErrInvalidInput
		}
		copy := *t
		s.data[tickTradeKey(t)] = &copy
	}
	return nil
}

// GetByTimeRange retrieves prints for a symbol within [start, end] (inclusive, ms).
func (s *TickTradeStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if t.Symbol == symbol && t.TimestampMs >= start && t.TimestampMs <= end {
			copy := *t
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TimestampMs != result[j].TimestampMs {
			return result[i].TimestampMs < result[j].TimestampMs
		}
		return result[i].Venue < result[j].Venue
	})
	return result, nil
}

// TickQuoteStore is an in-memory implementation of storage.TickQuoteStore.
type TickQuoteStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Quote
}

// NewTickQuoteStore creates a new in-memory quote archive.
func NewTickQuoteStore() *TickQuoteStore {
	return &TickQuoteStore{
		data: make(map[string]*domain.Quote),
	}
}

var _ storage.TickQuoteStore = (*TickQuoteStore)(nil)

func tickQuoteKey(q *domain.Quote) string {
	return fmt.Sprintf("%s|%d", q.Symbol, q.TimestampMs)
}

// InsertBulk archives a batch of quotes. Later snapshots for the same
// (symbol, timestamp) replace earlier ones.
func (s *TickQuoteStore) InsertBulk(_ context.Context, quotes []*domain.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range quotes {
		if q == nil || q.Symbol == "" {
			return storage.ErrInvalidInput
		}
		copy := *q
		s.data[tickQuoteKey(q)] = &copy
	}
	return nil
}

// GetByTimeRange retrieves quotes for a symbol within [start, end] (inclusive, ms).
func (s *TickQuoteStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Quote
	for _, q := range s.data {
		if q.Symbol == symbol && q.TimestampMs >= start && q.TimestampMs <= end {
			copy := *q
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})
	return result, nil
}
