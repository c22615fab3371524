package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// SweepStore implements storage.SweepStore using PostgreSQL.
type SweepStore struct {
	pool *Pool
}

// NewSweepStore creates a new SweepStore.
func NewSweepStore(pool *Pool) *SweepStore {
	return &SweepStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SweepStore = (*SweepStore)(nil)

const insertSweepQuery = `
	INSERT INTO sweeps (
		sweep_id, run_id, symbol, start_ms, end_ms, trade_count,
		total_size, total_value, cross_contract, trade_ids
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// Insert adds a sweep group under a run. Returns ErrDuplicateKey if sweep_id exists.
func (s *SweepStore) Insert(ctx context.Context, runID string, g *domain.SweepGroup) error {
	_, err := s.pool.Exec(ctx, insertSweepQuery, sweepArgs(runID, g)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert sweep: %w", err)
	}
	return nil
}

// InsertBulk adds multiple groups atomically. Fails entire batch on any duplicate.
func (s *SweepStore) InsertBulk(ctx context.Context, runID string, groups []*domain.SweepGroup) error {
	if len(groups) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, g := range groups {
		if _, err := tx.Exec(ctx, insertSweepQuery, sweepArgs(runID, g)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert sweep in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a sweep group by its ID. Returns ErrNotFound if not exists.
func (s *SweepStore) GetByID(ctx context.Context, sweepID string) (*domain.SweepGroup, error) {
	query := `
		SELECT sweep_id, symbol, start_ms, end_ms, total_size, total_value, cross_contract, trade_ids
		FROM sweeps
		WHERE sweep_id = $1
	`

	row := s.pool.QueryRow(ctx, query, sweepID)
	g, err := scanSweep(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get sweep by id: %w", err)
	}
	return g, nil
}

// GetBySymbol retrieves all groups for a symbol, ordered by start timestamp ASC.
func (s *SweepStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.SweepGroup, error) {
	query := `
		SELECT sweep_id, symbol, start_ms, end_ms, total_size, total_value, cross_contract, trade_ids
		FROM sweeps
		WHERE symbol = $1
		ORDER BY start_ms ASC, sweep_id ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get sweeps by symbol: %w", err)
	}
	defer rows.Close()

	var groups []*domain.SweepGroup
	for rows.Next() {
		g, err := scanSweep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweep row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweep rows: %w", err)
	}
	return groups, nil
}

// GetByRunID retrieves all groups persisted under a run.
func (s *SweepStore) GetByRunID(ctx context.Context, runID string) ([]*domain.SweepGroup, error) {
	query := `
		SELECT sweep_id, symbol, start_ms, end_ms, total_size, total_value, cross_contract, trade_ids
		FROM sweeps
		WHERE run_id = $1
		ORDER BY symbol ASC, start_ms ASC, sweep_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get sweeps by run id: %w", err)
	}
	defer rows.Close()

	var groups []*domain.SweepGroup
	for rows.Next() {
		g, err := scanSweep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweep row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweep rows: %w", err)
	}
	return groups, nil
}

func sweepArgs(runID string, g *domain.SweepGroup) []any {
	return []any{
		g.SweepID,
		runID,
		g.Symbol,
		g.StartMs,
		g.EndMs,
		g.Count(),
		g.TotalSize,
		g.TotalValue,
		g.CrossContract,
		g.TradeIDs,
	}
}

func scanSweep(row pgx.Row) (*domain.SweepGroup, error) {
	var g domain.SweepGroup
	err := row.Scan(
		&g.SweepID,
		&g.Symbol,
		&g.StartMs,
		&g.EndMs,
		&g.TotalSize,
		&g.TotalValue,
		&g.CrossContract,
		&g.TradeIDs,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
