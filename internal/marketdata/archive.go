package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

// ArchiveSource serves trades and quotes from the local tick archive
// instead of the provider API. It lets a scan replay a window that was
// captured by the stream recorder, with no rate limits involved.
type ArchiveSource struct {
	trades storage.TickTradeStore
	quotes storage.TickQuoteStore
}

// NewArchiveSource creates a Source backed by the tick archive.
func NewArchiveSource(trades storage.TickTradeStore, quotes storage.TickQuoteStore) *ArchiveSource {
	return &ArchiveSource{trades: trades, quotes: quotes}
}

var _ Source = (*ArchiveSource)(nil)

// GetTrades returns archived prints for the symbol within [start, end].
func (a *ArchiveSource) GetTrades(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Trade, error) {
	trades, err := a.trades.GetByTimeRange(ctx, symbol, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("archive trades for %s: %w", symbol, err)
	}
	return trades, nil
}

// GetQuotes returns archived quotes for the symbol within [start, end].
func (a *ArchiveSource) GetQuotes(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Quote, error) {
	quotes, err := a.quotes.GetByTimeRange(ctx, symbol, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("archive quotes for %s: %w", symbol, err)
	}
	return quotes, nil
}
