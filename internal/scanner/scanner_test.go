package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/DeanFinancials/deanfi-collectors/internal/config"
	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/marketdata"
)

type stubUniverse struct {
	symbols []string
	sectors map[string]string
}

func (u *stubUniverse) ListSymbols() []string { return u.symbols }
func (u *stubUniverse) SectorOf(symbol string) string {
	return u.sectors[symbol]
}

// failingSource fails configured symbols and delegates the rest.
type failingSource struct {
	inner marketdata.Source
	fail  map[string]error
}

func (f *failingSource) GetTrades(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Trade, error) {
	if err := f.fail[symbol]; err != nil {
		return nil, err
	}
	return f.inner.GetTrades(ctx, symbol, start, end)
}

func (f *failingSource) GetQuotes(ctx context.Context, symbol string, start, end time.Time) ([]*domain.Quote, error) {
	if err := f.fail[symbol]; err != nil {
		return nil, err
	}
	return f.inner.GetQuotes(ctx, symbol, start, end)
}

var scanEnd = time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Scan.Workers = 2
	cfg.Scan.LookbackDays = 1
	cfg.Scan.TargetMin = 1
	return cfg
}

// loadWhaleDay loads one symbol's session: three 60000-share prints at
// the ask inside a 40-second burst, one of them off-exchange.
func loadWhaleDay(src *marketdata.StaticSource, symbol string) {
	base := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC).UnixMilli()
	venues := []string{"Q", "D", "N"}
	for i := 0; i < 3; i++ {
		ts := base + int64(i)*20_000
		src.Trades[symbol] = append(src.Trades[symbol], &domain.Trade{
			Symbol:      symbol,
			TimestampMs: ts,
			Price:       200.0,
			Size:        60000,
			Notional:    200.0 * 60000,
			Venue:       venues[i],
			AssetClass:  domain.AssetClassEquity,
		})
	}
	src.Quotes[symbol] = []*domain.Quote{
		{Symbol: symbol, TimestampMs: base - 1000, BidPrice: 199.9, AskPrice: 200.0, BidSize: 5, AskSize: 5},
	}
}

func newTestScanner(t *testing.T, src marketdata.Source, symbols []string) *Scanner {
	t.Helper()
	s, err := New(Options{
		Source: src,
		Universe: &stubUniverse{
			symbols: symbols,
			sectors: map[string]string{"AAPL": "Information Technology", "XOM": "Energy"},
		},
		Config: testConfig(),
		Logger: zerolog.Nop(),
		Clock:  func() time.Time { return scanEnd },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestRun_ClassifiesAndAggregates(t *testing.T) {
	src := marketdata.NewStaticSource()
	loadWhaleDay(src, "AAPL")

	s := newTestScanner(t, src, []string{"AAPL"})
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.SymbolsScanned != 1 || result.SymbolsFailed != 0 {
		t.Fatalf("accounting = %d scanned / %d failed", result.SymbolsScanned, result.SymbolsFailed)
	}
	if result.TradingDays != 1 {
		t.Errorf("trading days = %d, want 1", result.TradingDays)
	}

	if len(result.Aggregates.Tickers) != 1 {
		t.Fatalf("got %d tickers, want 1", len(result.Aggregates.Tickers))
	}
	agg := result.Aggregates.Tickers[0]
	if agg.Symbol != "AAPL" || agg.Sector != "Information Technology" {
		t.Errorf("ticker = %s / %s", agg.Symbol, agg.Sector)
	}
	if agg.TradeCount != 3 {
		t.Fatalf("trade count = %d, want 3", agg.TradeCount)
	}

	for _, c := range agg.Trades {
		if c.Direction != domain.DirectionBuy || c.DirectionConfidence != 95 {
			t.Errorf("trade %s: %s/%d, want BUY/95", c.TradeID, c.Direction, c.DirectionConfidence)
		}
		if c.TierLabel != "Notable" {
			t.Errorf("tier = %s, want Notable", c.TierLabel)
		}
		if !c.IsSweep || c.SweepID == nil {
			t.Errorf("trade %s not part of the sweep", c.TradeID)
		}
	}
	if agg.DarkPoolCount != 1 {
		t.Errorf("dark pool count = %d, want 1", agg.DarkPoolCount)
	}
	if agg.SweepCount != 1 {
		t.Errorf("sweep count = %d, want 1", agg.SweepCount)
	}
	if agg.Sentiment.Direction != domain.SentimentBullish {
		t.Errorf("sentiment = %s, want BULLISH", agg.Sentiment.Direction)
	}
}

func TestRun_IsolatesSymbolFailure(t *testing.T) {
	inner := marketdata.NewStaticSource()
	loadWhaleDay(inner, "AAPL")
	loadWhaleDay(inner, "XOM")

	src := &failingSource{
		inner: inner,
		fail:  map[string]error{"XOM": errors.New("connect timeout")},
	}

	s := newTestScanner(t, src, []string{"AAPL", "XOM"})
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run should survive a symbol failure: %v", err)
	}

	if result.SymbolsFailed != 1 {
		t.Fatalf("failed = %d, want 1", result.SymbolsFailed)
	}
	if len(result.FailedSymbols) != 1 || result.FailedSymbols[0] != "XOM" {
		t.Errorf("failed symbols = %v", result.FailedSymbols)
	}
	// The failed symbol contributes nothing to the aggregates.
	if len(result.Aggregates.Tickers) != 1 || result.Aggregates.Tickers[0].Symbol != "AAPL" {
		t.Errorf("aggregates include failed symbol: %+v", result.Aggregates.Tickers)
	}
}

func TestRun_EmptyTapeIsNotAnError(t *testing.T) {
	src := marketdata.NewStaticSource()

	s := newTestScanner(t, src, []string{"AAPL"})
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed on empty tape: %v", err)
	}
	if result.SymbolsFailed != 0 {
		t.Errorf("failed = %d, want 0", result.SymbolsFailed)
	}
	if result.Aggregates.Overall.TradeCount != 0 {
		t.Errorf("trade count = %d, want 0", result.Aggregates.Overall.TradeCount)
	}
}

func TestRun_Deterministic(t *testing.T) {
	src := marketdata.NewStaticSource()
	loadWhaleDay(src, "AAPL")
	loadWhaleDay(src, "XOM")

	a, err := newTestScanner(t, src, []string{"AAPL", "XOM"}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := newTestScanner(t, src, []string{"XOM", "AAPL"}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if a.Aggregates.Overall != b.Aggregates.Overall {
		t.Errorf("overall totals differ across symbol orderings:\n%+v\n%+v", a.Aggregates.Overall, b.Aggregates.Overall)
	}
}

func TestNew_RejectsBadTiers(t *testing.T) {
	cfg := testConfig()
	cfg.Scan.Tiers = []config.Tier{
		{MinSize: 10000, MinNotional: 2_500_000, Label: "Large"},
		{MinSize: 5000, MinNotional: 1_000_000, Label: "Notable"},
	}

	_, err := New(Options{
		Source:   marketdata.NewStaticSource(),
		Universe: &stubUniverse{},
		Config:   cfg,
		Logger:   zerolog.Nop(),
	})
	if err == nil {
		t.Fatal("expected tier validation error")
	}
}
