// Package marketdata defines the boundary to the trade and quote
// provider and implements the Alpaca Data API client against it.
package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// Source supplies raw trades and quotes for a symbol over a bounded
// window. Both calls may return fewer records than the window holds;
// truncation is reduced signal, not failure.
type Source interface {
	GetTrades(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Trade, error)
	GetQuotes(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Quote, error)
}

// Errors surfaced by sources. ErrRateLimited and timeouts are transient;
// workers retry the fetch with backoff.
var (
	ErrRateLimited = errors.New("market data: rate limited")
	ErrNotFound    = errors.New("market data: symbol not found")
)

// IsTransient reports whether a fetch error is worth retrying.
func IsTransient(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
