package storage

import (
	"context"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// WhaleTradeStore provides access to whale_trades storage. Trades are
// keyed by their deterministic trade ID, so re-scanning an overlapping
// window surfaces duplicates instead of silently double-counting.
type WhaleTradeStore interface {
	// Insert adds a classified trade under a run. Returns
	// ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, runID string, t *domain.ClassifiedTrade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, runID string, trades []*domain.ClassifiedTrade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.ClassifiedTrade, error)

	// GetBySymbol retrieves all trades for a symbol, ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.ClassifiedTrade, error)

	// GetByTimeRange retrieves trades for a symbol within [start, end] (inclusive, ms).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.ClassifiedTrade, error)

	// GetByRunID retrieves all trades persisted under a run, ordered by
	// symbol then timestamp ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.ClassifiedTrade, error)
}

// SweepStore provides access to sweeps storage.
type SweepStore interface {
	// Insert adds a sweep group under a run. Returns ErrDuplicateKey if sweep_id exists.
	Insert(ctx context.Context, runID string, g *domain.SweepGroup) error

	// InsertBulk adds multiple groups atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, runID string, groups []*domain.SweepGroup) error

	// GetByID retrieves a sweep group by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, sweepID string) (*domain.SweepGroup, error)

	// GetBySymbol retrieves all groups for a symbol, ordered by start timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.SweepGroup, error)

	// GetByRunID retrieves all groups persisted under a run, ordered by
	// symbol then start timestamp ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.SweepGroup, error)
}

// ScanRunStore provides access to scan_runs storage.
type ScanRunStore interface {
	// Insert adds a new run summary. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.ScanRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.ScanRun, error)

	// GetLatest retrieves the most recently finished run. Returns
	// ErrNotFound if no runs exist.
	GetLatest(ctx context.Context) (*domain.ScanRun, error)

	// GetByWindowRange retrieves runs whose window end falls within
	// [start, end] (inclusive, ms), ordered by window end ASC.
	GetByWindowRange(ctx context.Context, start, end int64) ([]*domain.ScanRun, error)
}

// TickTradeStore archives raw prints from the live stream. Inserts are
// idempotent on (symbol, timestamp, venue, price, size); replaying a
// stream segment does not duplicate rows.
type TickTradeStore interface {
	// InsertBulk archives a batch of raw prints.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByTimeRange retrieves prints for a symbol within [start, end]
	// (inclusive, ms), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Trade, error)
}

// TickQuoteStore archives NBBO snapshots from the live stream.
type TickQuoteStore interface {
	// InsertBulk archives a batch of quotes.
	InsertBulk(ctx context.Context, quotes []*domain.Quote) error

	// GetByTimeRange retrieves quotes for a symbol within [start, end]
	// (inclusive, ms), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Quote, error)
}
