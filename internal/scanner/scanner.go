// Package scanner drives the whale scan across the ticker universe:
// fetch, classify, sweep-detect per symbol under bounded concurrency,
// then one deterministic aggregation over the results.
package scanner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/DeanFinancials/deanfi-collectors/internal/calendar"
	"github.com/DeanFinancials/deanfi-collectors/internal/classify"
	"github.com/DeanFinancials/deanfi-collectors/internal/config"
	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/idhash"
	"github.com/DeanFinancials/deanfi-collectors/internal/lookup"
	"github.com/DeanFinancials/deanfi-collectors/internal/marketdata"
	"github.com/DeanFinancials/deanfi-collectors/internal/ratelimit"
	"github.com/DeanFinancials/deanfi-collectors/internal/sentiment"
)

// UniverseSource is the ticker-universe boundary.
type UniverseSource interface {
	ListSymbols() []string
	SectorOf(symbol string) string
}

// Scanner coordinates one scan run.
type Scanner struct {
	source   marketdata.Source
	universe UniverseSource
	cfg      *config.Config
	limiter  *ratelimit.Bucket
	venues   *classify.VenueClassifier
	tiers    []domain.ThresholdTier
	log      zerolog.Logger
	clock    func() time.Time
}

// Options for creating Scanner.
type Options struct {
	Source   marketdata.Source
	Universe UniverseSource
	Config   *config.Config
	Limiter  *ratelimit.Bucket
	Logger   zerolog.Logger

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// New creates a Scanner. The tier table is validated here; a malformed
// table aborts before any fetching.
func New(opts Options) (*Scanner, error) {
	tiers := opts.Config.ThresholdTiers()
	if err := classify.ValidateTiers(tiers); err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.PerMinute(opts.Config.Scan.RequestsPerMin)
	}

	return &Scanner{
		source:   opts.Source,
		universe: opts.Universe,
		cfg:      opts.Config,
		limiter:  limiter,
		venues:   classify.NewVenueClassifier(opts.Config.Scan.DarkPoolVenues),
		tiers:    tiers,
		log:      opts.Logger,
		clock:    clock,
	}, nil
}

// RunResult contains everything one scan produced, plus completeness
// accounting so consumers can judge partial runs.
type RunResult struct {
	Aggregates *sentiment.Result

	SymbolsScanned int
	SymbolsFailed  int
	FailedSymbols  []string

	WindowStart time.Time
	WindowEnd   time.Time
	TradingDays int

	Errors []string
}

// Run executes the scan. Per-symbol pipelines run on a bounded worker
// pool sharing one rate-limit bucket; failures are isolated to their
// symbol and the final aggregation happens exactly once, after every
// worker has finished.
func (s *Scanner) Run(ctx context.Context) (*RunResult, error) {
	end := s.clock()
	start := calendar.LookbackStart(end, s.cfg.Scan.LookbackDays)

	symbols := s.universe.ListSymbols()
	s.log.Info().
		Int("symbols", len(symbols)).
		Time("window_start", start).
		Time("window_end", end).
		Msg("scan starting")

	result := &RunResult{
		SymbolsScanned: len(symbols),
		WindowStart:    start,
		WindowEnd:      end,
		TradingDays:    calendar.TradingDayCount(start, end),
	}

	var (
		mu     sync.Mutex
		inputs []*sentiment.TickerInput
	)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Scan.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				input, err := s.scanSymbol(ctx, symbol, start, end)
				mu.Lock()
				if err != nil {
					result.SymbolsFailed++
					result.FailedSymbols = append(result.FailedSymbols, symbol)
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", symbol, err))
					s.log.Warn().Str("symbol", symbol).Err(err).Msg("symbol scan failed")
				} else if input != nil {
					inputs = append(inputs, input)
				}
				mu.Unlock()
			}
		}()
	}

	for _, symbol := range symbols {
		select {
		case jobs <- symbol:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	sort.Strings(result.FailedSymbols)
	sort.Strings(result.Errors)

	// Single aggregation pass over all completed symbols.
	result.Aggregates = sentiment.Aggregate(inputs)

	s.log.Info().
		Int("scanned", result.SymbolsScanned).
		Int("failed", result.SymbolsFailed).
		Int("whale_trades", result.Aggregates.Overall.TradeCount).
		Msg("scan complete")
	return result, nil
}

// scanSymbol runs the full per-ticker pipeline. A nil, nil return means
// the symbol had no qualifying trades.
func (s *Scanner) scanSymbol(ctx context.Context, symbol string, start, end time.Time) (*sentiment.TickerInput, error) {
	trades, quotes, err := s.fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	tier, retained := classify.SelectThreshold(trades, s.tiers, s.cfg.Multiplier(symbol), s.cfg.Scan.TargetMax)

	// Thin tape: widen the lookback once before settling for less.
	if len(retained) < s.cfg.Scan.TargetMin {
		widerStart := calendar.LookbackStart(start.AddDate(0, 0, -1), s.cfg.Scan.LookbackDays)
		wTrades, wQuotes, werr := s.fetch(ctx, symbol, widerStart, end)
		if werr == nil {
			trades, quotes = wTrades, wQuotes
			tier, retained = classify.SelectThreshold(trades, s.tiers, s.cfg.Multiplier(symbol), s.cfg.Scan.TargetMax)
		}
	}

	if len(retained) == 0 {
		return nil, nil
	}
	retained = classify.CapRetained(retained, s.cfg.Scan.HardMaxTrades)

	lookup.SortQuotes(quotes)

	classified := make([]*domain.ClassifiedTrade, 0, len(retained))
	for _, trade := range retained {
		quote, qerr := lookup.QuoteAt(trade.TimestampMs, quotes)
		if qerr != nil {
			quote = nil // no quote data at all: degrade, not fail
		}
		direction, confidence := classify.InferDirection(trade, quote)

		classified = append(classified, &domain.ClassifiedTrade{
			TradeID:             idhash.ComputeTradeID(trade.Symbol, trade.TimestampMs, trade.Price, trade.Size, trade.Venue),
			Trade:               *trade,
			Direction:           direction,
			DirectionConfidence: confidence,
			IsDarkPool:          s.venues.IsDarkPool(trade.Venue),
			TierLabel:           tier.Label,
		})
	}

	sweeps := classify.DetectSweeps(classified, s.cfg.Scan.SweepWindowSec, s.cfg.Scan.SweepMinGroup)

	return &sentiment.TickerInput{
		Symbol: symbol,
		Sector: s.universe.SectorOf(symbol),
		Trades: classified,
		Sweeps: sweeps,
	}, nil
}

// fetch pulls trades and quotes under the shared rate budget, with a
// per-symbol deadline.
func (s *Scanner) fetch(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Trade, []*domain.Quote, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout())
	defer cancel()

	if err := s.limiter.Wait(fetchCtx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait: %w", err)
	}
	trades, err := s.source.GetTrades(fetchCtx, symbol, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch trades: %w", err)
	}

	if err := s.limiter.Wait(fetchCtx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait: %w", err)
	}
	quotes, err := s.source.GetQuotes(fetchCtx, symbol, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch quotes: %w", err)
	}

	return trades, quotes, nil
}
