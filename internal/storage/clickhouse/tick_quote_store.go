package clickhouse

import (
	"context"
	"fmt"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// TickQuoteStore implements storage.TickQuoteStore using ClickHouse.
type TickQuoteStore struct {
	conn *Conn
}

// NewTickQuoteStore creates a new TickQuoteStore.
func NewTickQuoteStore(conn *Conn) *TickQuoteStore {
	return &TickQuoteStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TickQuoteStore = (*TickQuoteStore)(nil)

// InsertBulk archives a batch of quotes.
func (s *TickQuoteStore) InsertBulk(ctx context.Context, quotes []*domain.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO tick_quotes (
			symbol, timestamp_ms, bid_price, ask_price, bid_size, ask_size
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, q := range quotes {
		err = batch.Append(
			q.Symbol, uint64(q.TimestampMs), q.BidPrice, q.AskPrice,
			uint64(q.BidSize), uint64(q.AskSize),
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

// GetByTimeRange retrieves quotes for a symbol within [start, end]
// (inclusive, ms), ordered by timestamp ASC.
func (s *TickQuoteStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Quote, error) {
	query := `
		SELECT symbol, timestamp_ms, bid_price, ask_price, bid_size, ask_size
		FROM tick_quotes FINAL
		WHERE symbol = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query tick quotes by time range: %w", err)
	}
	defer rows.Close()

	return scanTickQuotes(rows)
}

// scanTickQuotes scans multiple rows.
func scanTickQuotes(rows chRows) ([]*domain.Quote, error) {
	var quotes []*domain.Quote

	for rows.Next() {
		var q domain.Quote
		var timestampMs, bidSize, askSize uint64

		err := rows.Scan(
			&q.Symbol, &timestampMs, &q.BidPrice, &q.AskPrice,
			&bidSize, &askSize,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tick quote row: %w", err)
		}

		q.TimestampMs = int64(timestampMs)
		q.BidSize = int64(bidSize)
		q.AskSize = int64(askSize)
		quotes = append(quotes, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tick quote rows: %w", err)
	}

	return quotes, nil
}
