package marketdata

import (
	"context"
	"time"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// StaticSource serves pre-loaded trades and quotes, filtered to the
// requested window. Used for replaying recorded sessions and in tests.
type StaticSource struct {
	Trades map[string][]*domain.Trade
	Quotes map[string][]*domain.Quote

	// Err, when set, is returned by every call.
	Err error
}

// NewStaticSource creates an empty static source.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		Trades: make(map[string][]*domain.Trade),
		Quotes: make(map[string][]*domain.Quote),
	}
}

// GetTrades returns the loaded trades for symbol within [start, end].
func (s *StaticSource) GetTrades(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Trade, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*domain.Trade
	for _, t := range s.Trades[symbol] {
		if inWindow(t.TimestampMs, start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetQuotes returns the loaded quotes for symbol within [start, end].
func (s *StaticSource) GetQuotes(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Quote, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*domain.Quote
	for _, q := range s.Quotes[symbol] {
		if inWindow(q.TimestampMs, start, end) {
			out = append(out, q)
		}
	}
	return out, nil
}

func inWindow(ts int64, start, end time.Time) bool {
	return ts >= start.UnixMilli() && ts <= end.UnixMilli()
}
