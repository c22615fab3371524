// Package ingestion drains the live market data stream into the tick
// archive, batching writes so ClickHouse sees large inserts.
package ingestion

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/observability"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
)

const (
	// DefaultFlushInterval bounds how stale a buffered batch may get.
	DefaultFlushInterval = 5 * time.Second
	// DefaultBatchSize flushes a buffer before the interval when the
	// stream is busy.
	DefaultBatchSize = 1000
)

// Recorder drains trade and quote channels into the archive stores.
type Recorder struct {
	trades <-chan *domain.Trade
	quotes <-chan *domain.Quote

	tradeStore storage.TickTradeStore
	quoteStore storage.TickQuoteStore

	flushInterval time.Duration
	batchSize     int
	log           zerolog.Logger

	tradeBuffer []*domain.Trade
	quoteBuffer []*domain.Quote
}

// RecorderOptions contains configuration for creating a Recorder.
type RecorderOptions struct {
	Trades <-chan *domain.Trade
	Quotes <-chan *domain.Quote

	TradeStore storage.TickTradeStore
	QuoteStore storage.TickQuoteStore

	FlushInterval time.Duration
	BatchSize     int
	Logger        zerolog.Logger
}

// NewRecorder creates a new stream recorder.
func NewRecorder(opts RecorderOptions) *Recorder {
	flushInterval := opts.FlushInterval
	if flushInterval == 0 {
		flushInterval = DefaultFlushInterval
	}
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}

	return &Recorder{
		trades:        opts.Trades,
		quotes:        opts.Quotes,
		tradeStore:    opts.TradeStore,
		quoteStore:    opts.QuoteStore,
		flushInterval: flushInterval,
		batchSize:     batchSize,
		log:           opts.Logger,
	}
}

// Run drains the channels until the context is cancelled or both
// channels close, then performs a final flush. Flush errors are logged
// and the buffer is dropped; the archive tolerates gaps, and holding
// the buffer would grow without bound while the sink is down.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	trades, quotes := r.trades, r.quotes
	for trades != nil || quotes != nil {
		select {
		case <-ctx.Done():
			r.flush(context.Background())
			return ctx.Err()

		case t, ok := <-trades:
			if !ok {
				trades = nil
				continue
			}
			observability.RecordStreamTrade()
			r.tradeBuffer = append(r.tradeBuffer, t)
			if len(r.tradeBuffer) >= r.batchSize {
				r.flushTrades(ctx)
			}

		case q, ok := <-quotes:
			if !ok {
				quotes = nil
				continue
			}
			observability.RecordStreamQuote()
			r.quoteBuffer = append(r.quoteBuffer, q)
			if len(r.quoteBuffer) >= r.batchSize {
				r.flushQuotes(ctx)
			}

		case <-ticker.C:
			r.flush(ctx)
		}
	}

	r.flush(context.Background())
	return nil
}

func (r *Recorder) flush(ctx context.Context) {
	r.flushTrades(ctx)
	r.flushQuotes(ctx)
}

func (r *Recorder) flushTrades(ctx context.Context) {
	if len(r.tradeBuffer) == 0 {
		return
	}
	err := r.tradeStore.InsertBulk(ctx, r.tradeBuffer)
	observability.RecordArchiveFlush("trades", err)
	if err != nil {
		r.log.Error().Err(err).Int("count", len(r.tradeBuffer)).Msg("trade archive flush failed")
	} else {
		last := r.tradeBuffer[len(r.tradeBuffer)-1]
		observability.DefaultMetrics.LastArchivedTradeMs.Set(float64(last.TimestampMs))
		r.log.Debug().Int("count", len(r.tradeBuffer)).Msg("flushed trades")
	}
	r.tradeBuffer = r.tradeBuffer[:0]
}

func (r *Recorder) flushQuotes(ctx context.Context) {
	if len(r.quoteBuffer) == 0 {
		return
	}
	err := r.quoteStore.InsertBulk(ctx, r.quoteBuffer)
	observability.RecordArchiveFlush("quotes", err)
	if err != nil {
		r.log.Error().Err(err).Int("count", len(r.quoteBuffer)).Msg("quote archive flush failed")
	} else {
		r.log.Debug().Int("count", len(r.quoteBuffer)).Msg("flushed quotes")
	}
	r.quoteBuffer = r.quoteBuffer[:0]
}
