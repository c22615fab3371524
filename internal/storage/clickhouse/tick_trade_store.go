package clickhouse

import (
	"context"
	"fmt"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// TickTradeStore implements storage.TickTradeStore using ClickHouse.
// ReplacingMergeTree collapses replayed segments, so InsertBulk does
// not check for duplicates; the FINAL modifier on reads hides rows the
// background merge has not collapsed yet.
type TickTradeStore struct {
	conn *Conn
}

// NewTickTradeStore creates a new TickTradeStore.
func NewTickTradeStore(conn *Conn) *TickTradeStore {
	return &TickTradeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TickTradeStore = (*TickTradeStore)(nil)

// InsertBulk archives a batch of raw prints.
func (s *TickTradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO tick_trades (
			symbol, timestamp_ms, price, size, notional, venue, asset_class
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		err = batch.Append(
			t.Symbol, uint64(t.TimestampMs), t.Price, uint64(t.Size),
			t.Notional, t.Venue, string(t.AssetClass),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves prints for a symbol within [start, end]
// (inclusive, ms), ordered by timestamp ASC.
func (s *TickTradeStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Trade, error) {
	query := `
		SELECT symbol, timestamp_ms, price, size, notional, venue, asset_class
		FROM tick_trades FINAL
		WHERE symbol = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query tick trades by time range: %w", err)
	}
	defer rows.Close()

	return scanTickTrades(rows)
}

// scanTickTrades scans multiple rows.
func scanTickTrades(rows chRows) ([]*domain.Trade, error) {
	var trades []*domain.Trade

	for rows.Next() {
		var t domain.Trade
		var timestampMs, size uint64
		var assetClass string

		err := rows.Scan(
			&t.Symbol, &timestampMs, &t.Price, &size,
			&t.Notional, &t.Venue, &assetClass,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tick trade row: %w", err)
		}

		t.TimestampMs = int64(timestampMs)
		t.Size = int64(size)
		t.AssetClass = domain.AssetClass(assetClass)
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tick trade rows: %w", err)
	}

	return trades, nil
}
