package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// ScanRunStore is an in-memory implementation of storage.ScanRunStore.
type ScanRunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScanRun // keyed by run ID
}

// NewScanRunStore creates a new in-memory scan run store.
func NewScanRunStore() *ScanRunStore {
	return &ScanRunStore{
		data: make(map[string]*domain.ScanRun),
	}
}

var _ storage.ScanRunStore = (*ScanRunStore)(nil)

// Insert adds a new run summary. Returns ErrDuplicateKey if exists.
func (s *ScanRunStore) Insert(_ context.Context, run *domain.ScanRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.RunID]; exists {
		return storage.ErrDuplicateKey
	}
	r := *run
	s.data[run.RunID] = &r
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *ScanRunStore) GetByID(_ context.Context, runID string) (*domain.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	r := *run
	return &r, nil
}

// GetLatest retrieves the most recently finished run.
func (s *ScanRunStore) GetLatest(_ context.Context) (*domain.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.ScanRun
	for _, run := range s.data {
		if latest == nil ||
			run.FinishedAtMs > latest.FinishedAtMs ||
			(run.FinishedAtMs == latest.FinishedAtMs && run.RunID > latest.RunID) {
			latest = run
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	r := *latest
	return &r, nil
}

// GetByWindowRange retrieves runs whose window end falls within [start, end] (inclusive, ms).
func (s *ScanRunStore) GetByWindowRange(_ context.Context, start, end int64) ([]*domain.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScanRun
	for _, run := range s.data {
		if run.WindowEndMs >= start && run.WindowEndMs <= end {
			r := *run
			result = append(result, &r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].WindowEndMs != result[j].WindowEndMs {
			return result[i].WindowEndMs < result[j].WindowEndMs
		}
		return result[i].RunID < result[j].RunID
	})
	return result, nil
}
