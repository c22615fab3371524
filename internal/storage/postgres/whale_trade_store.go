package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// WhaleTradeStore implements storage.WhaleTradeStore using PostgreSQL.
type WhaleTradeStore struct {
	pool *Pool
}

// NewWhaleTradeStore creates a new WhaleTradeStore.
func NewWhaleTradeStore(pool *Pool) *WhaleTradeStore {
	return &WhaleTradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WhaleTradeStore = (*WhaleTradeStore)(nil)

const insertWhaleTradeQuery = `
	INSERT INTO whale_trades (
		trade_id, run_id, symbol, timestamp_ms, price, size, notional, venue,
		asset_class, direction, direction_confidence, is_dark_pool, tier_label,
		is_sweep, sweep_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

const selectWhaleTradeColumns = `
	trade_id, symbol, timestamp_ms, price, size, notional, venue,
	asset_class, direction, direction_confidence, is_dark_pool, tier_label,
	is_sweep, sweep_id
`

// Insert adds a classified trade under a run. Returns ErrDuplicateKey if trade_id exists.
func (s *WhaleTradeStore) Insert(ctx context.Context, runID string, t *domain.ClassifiedTrade) error {
	_, err := s.pool.Exec(ctx, insertWhaleTradeQuery, whaleTradeArgs(runID, t)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert whale trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *WhaleTradeStore) InsertBulk(ctx context.Context, runID string, trades []*domain.ClassifiedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if _, err := tx.Exec(ctx, insertWhaleTradeQuery, whaleTradeArgs(runID, t)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert whale trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *WhaleTradeStore) GetByID(ctx context.Context, tradeID string) (*domain.ClassifiedTrade, error) {
	query := `
		SELECT ` + selectWhaleTradeColumns + `
		FROM whale_trades
		WHERE trade_id = $1
	`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanWhaleTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get whale trade by id: %w", err)
	}
	return t, nil
}

// GetBySymbol retrieves all trades for a symbol, ordered by timestamp ASC.
func (s *WhaleTradeStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.ClassifiedTrade, error) {
	query := `
		SELECT ` + selectWhaleTradeColumns + `
		FROM whale_trades
		WHERE symbol = $1
		ORDER BY timestamp_ms ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get whale trades by symbol: %w", err)
	}
	defer rows.Close()

	return scanWhaleTrades(rows)
}

// GetByTimeRange retrieves trades for a symbol within [start, end] (inclusive, ms).
func (s *WhaleTradeStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.ClassifiedTrade, error) {
	query := `
		SELECT ` + selectWhaleTradeColumns + `
		FROM whale_trades
		WHERE symbol = $1 AND timestamp_ms >= $2 AND timestamp_ms <= $3
		ORDER BY timestamp_ms ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("get whale trades by time range: %w", err)
	}
	defer rows.Close()

	return scanWhaleTrades(rows)
}

// GetByRunID retrieves all trades persisted under a run.
func (s *WhaleTradeStore) GetByRunID(ctx context.Context, runID string) ([]*domain.ClassifiedTrade, error) {
	query := `
		SELECT ` + selectWhaleTradeColumns + `
		FROM whale_trades
		WHERE run_id = $1
		ORDER BY symbol ASC, timestamp_ms ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get whale trades by run id: %w", err)
	}
	defer rows.Close()

	return scanWhaleTrades(rows)
}

func whaleTradeArgs(runID string, t *domain.ClassifiedTrade) []any {
	return []any{
		t.TradeID,
		runID,
		t.Trade.Symbol,
		t.Trade.TimestampMs,
		t.Trade.Price,
		t.Trade.Size,
		t.Trade.Notional,
		t.Trade.Venue,
		string(t.Trade.AssetClass),
		string(t.Direction),
		t.DirectionConfidence,
		t.IsDarkPool,
		t.TierLabel,
		t.IsSweep,
		t.SweepID,
	}
}

// scanWhaleTrade scans a single row into a ClassifiedTrade.
func scanWhaleTrade(row pgx.Row) (*domain.ClassifiedTrade, error) {
	var t domain.ClassifiedTrade
	var assetClass, direction string

	err := row.Scan(
		&t.TradeID,
		&t.Trade.Symbol,
		&t.Trade.TimestampMs,
		&t.Trade.Price,
		&t.Trade.Size,
		&t.Trade.Notional,
		&t.Trade.Venue,
		&assetClass,
		&direction,
		&t.DirectionConfidence,
		&t.IsDarkPool,
		&t.TierLabel,
		&t.IsSweep,
		&t.SweepID,
	)
	if err != nil {
		return nil, err
	}

	t.Trade.AssetClass = domain.AssetClass(assetClass)
	t.Direction = domain.Direction(direction)
	return &t, nil
}

// scanWhaleTrades scans multiple rows into a slice.
func scanWhaleTrades(rows pgx.Rows) ([]*domain.ClassifiedTrade, error) {
	var trades []*domain.ClassifiedTrade

	for rows.Next() {
		t, err := scanWhaleTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan whale trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate whale trade rows: %w", err)
	}

	return trades, nil
}
