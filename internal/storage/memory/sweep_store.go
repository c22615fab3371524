package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

type sweepRecord struct {
	runID string
	group domain.SweepGroup
}

// SweepStore is an in-memory implementation of storage.SweepStore.
type SweepStore struct {
	mu   sync.RWMutex
	data map[string]*sweepRecord // keyed by sweep ID
}

// NewSweepStore creates a new in-memory sweep store.
func NewSweepStore() *SweepStore {
	return &SweepStore{
		data: make(map[string]*sweepRecord),
	}
}

var _ storage.SweepStore = (*SweepStore)(nil)

// Insert adds a sweep group under a run. Returns ErrDuplicateKey if exists.
func (s *SweepStore) Insert(_ context.Context, runID string, g *domain.SweepGroup) error {
	if g == nil || g.SweepID == "" || runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[g.SweepID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[g.SweepID] = &sweepRecord{runID: runID, group: copyGroup(g)}
	return nil
}

// InsertBulk adds multiple groups atomically. Fails entire batch on any duplicate.
func (s *SweepStore) InsertBulk(_ context.Context, runID string, groups []*domain.SweepGroup) error {
	if len(groups) == 0 {
		return nil
	}
	if runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g == nil || g.SweepID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[g.SweepID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[g.SweepID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[g.SweepID] = struct{}{}
	}

	for _, g := range groups {
		s.data[g.SweepID] = &sweepRecord{runID: runID, group: copyGroup(g)}
	}
	return nil
}

// GetByID retrieves a sweep group by its ID. Returns ErrNotFound if not exists.
func (s *SweepStore) GetByID(_ context.Context, sweepID string) (*domain.SweepGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[sweepID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	g := copyGroup(&rec.group)
	return &g, nil
}

// GetBySymbol retrieves all groups for a symbol, ordered by start timestamp ASC.
func (s *SweepStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.SweepGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SweepGroup
	for _, rec := range s.data {
		if rec.group.Symbol == symbol {
			g := copyGroup(&rec.group)
			result = append(result, &g)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartMs != result[j].StartMs {
			return result[i].StartMs < result[j].StartMs
		}
		return result[i].SweepID < result[j].SweepID
	})
	return result, nil
}

// GetByRunID retrieves all groups persisted under a run.
func (s *SweepStore) GetByRunID(_ context.Context, runID string) ([]*domain.SweepGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SweepGroup
	for _, rec := range s.data {
		if rec.runID == runID {
			g := copyGroup(&rec.group)
			result = append(result, &g)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Symbol != result[j].Symbol {
			return result[i].Symbol < result[j].Symbol
		}
		if result[i].StartMs != result[j].StartMs {
			return result[i].StartMs < result[j].StartMs
		}
		return result[i].SweepID < result[j].SweepID
	})
	return result, nil
}

// copyGroup deep-copies a sweep group so callers cannot mutate stored state.
func copyGroup(g *domain.SweepGroup) domain.SweepGroup {
	out := *g
	out.TradeIDs = make([]string, len(g.TradeIDs))
	copy(out.TradeIDs, g.TradeIDs)
	return out
}
