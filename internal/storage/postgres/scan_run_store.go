package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// ScanRunStore implements storage.ScanRunStore using PostgreSQL.
type ScanRunStore struct {
	pool *Pool
}

// NewScanRunStore creates a new ScanRunStore.
func NewScanRunStore(pool *Pool) *ScanRunStore {
	return &ScanRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScanRunStore = (*ScanRunStore)(nil)

const selectScanRunColumns = `
	run_id, started_at_ms, finished_at_ms, window_start_ms, window_end_ms,
	trading_days, symbols_scanned, symbols_failed, trade_count,
	total_notional, sweep_count, sentiment, net_value, created_at
`

// Insert adds a new run summary. Returns ErrDuplicateKey if run_id exists.
func (s *ScanRunStore) Insert(ctx context.Context, run *domain.ScanRun) error {
	query := `
		INSERT INTO scan_runs (
			run_id, started_at_ms, finished_at_ms, window_start_ms, window_end_ms,
			trading_days, symbols_scanned, symbols_failed, trade_count,
			total_notional, sweep_count, sentiment, net_value
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		run.RunID,
		run.StartedAtMs,
		run.FinishedAtMs,
		run.WindowStartMs,
		run.WindowEndMs,
		run.TradingDays,
		run.SymbolsScanned,
		run.SymbolsFailed,
		run.TradeCount,
		run.TotalNotional,
		run.SweepCount,
		string(run.Sentiment),
		run.NetValue,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert scan run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *ScanRunStore) GetByID(ctx context.Context, runID string) (*domain.ScanRun, error) {
	query := `
		SELECT ` + selectScanRunColumns + `
		FROM scan_runs
		WHERE run_id = $1
	`

	run, err := scanScanRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get scan run by id: %w", err)
	}
	return run, nil
}

// GetLatest retrieves the most recently finished run.
func (s *ScanRunStore) GetLatest(ctx context.Context) (*domain.ScanRun, error) {
	query := `
		SELECT ` + selectScanRunColumns + `
		FROM scan_runs
		ORDER BY finished_at_ms DESC, run_id DESC
		LIMIT 1
	`

	run, err := scanScanRun(s.pool.QueryRow(ctx, query))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest scan run: %w", err)
	}
	return run, nil
}

// GetByWindowRange retrieves runs whose window end falls within [start, end] (inclusive, ms).
func (s *ScanRunStore) GetByWindowRange(ctx context.Context, start, end int64) ([]*domain.ScanRun, error) {
	query := `
		SELECT ` + selectScanRunColumns + `
		FROM scan_runs
		WHERE window_end_ms >= $1 AND window_end_ms <= $2
		ORDER BY window_end_ms ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get scan runs by window range: %w", err)
	}
	defer rows.Close()

	var runs []*domain.ScanRun
	for rows.Next() {
		run, err := scanScanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan run rows: %w", err)
	}
	return runs, nil
}

func scanScanRun(row pgx.Row) (*domain.ScanRun, error) {
	var run domain.ScanRun
	var sentiment string

	err := row.Scan(
		&run.RunID,
		&run.StartedAtMs,
		&run.FinishedAtMs,
		&run.WindowStartMs,
		&run.WindowEndMs,
		&run.TradingDays,
		&run.SymbolsScanned,
		&run.SymbolsFailed,
		&run.TradeCount,
		&run.TotalNotional,
		&run.SweepCount,
		&sentiment,
		&run.NetValue,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Sentiment = domain.Sentiment(sentiment)
	return &run, nil
}
