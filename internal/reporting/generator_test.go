package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/scanner"
	"github.com/DeanFinancials/deanfi-collectors/internal/sentiment"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC)
}

func mkClassified(symbol, venue string, notional float64, dir domain.Direction, conf int, dark bool) *domain.ClassifiedTrade {
	return &domain.ClassifiedTrade{
		TradeID: symbol + "-" + venue,
		Trade: domain.Trade{
			Symbol:      symbol,
			TimestampMs: 1_000_000,
			Price:       100,
			Size:        int64(notional / 100),
			Notional:    notional,
			Venue:       venue,
			AssetClass:  domain.AssetClassEquity,
		},
		Direction:           dir,
		DirectionConfidence: conf,
		IsDarkPool:          dark,
		TierLabel:           "Whale",
	}
}

func testRun() *scanner.RunResult {
	inputs := []*sentiment.TickerInput{
		{
			Symbol: "AAPL",
			Sector: "Information Technology",
			Trades: []*domain.ClassifiedTrade{
				mkClassified("AAPL", "Q", 50_000_000, domain.DirectionBuy, 95, false),
				mkClassified("AAPL", "D", 10_000_000, domain.DirectionSell, 90, true),
			},
		},
		{
			Symbol: "XOM",
			Sector: "Energy",
			Trades: []*domain.ClassifiedTrade{
				mkClassified("XOM", "N", 30_000_000, domain.DirectionSell, 95, false),
			},
		},
	}

	return &scanner.RunResult{
		Aggregates:     sentiment.Aggregate(inputs),
		SymbolsScanned: 3,
		SymbolsFailed:  1,
		FailedSymbols:  []string{"TSLA"},
		WindowStart:    time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		WindowEnd:      time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC),
		TradingDays:    1,
	}
}

func TestBuild_Summary(t *testing.T) {
	g := NewGenerator(10).WithClock(fixedClock)
	summary, detail := g.Build(testRun())

	if summary.WindowStart != "2026-08-28" || summary.TradingDays != 1 {
		t.Errorf("window = %s / %d days", summary.WindowStart, summary.TradingDays)
	}
	if summary.SymbolsScanned != 3 || summary.SymbolsFailed != 1 {
		t.Errorf("accounting = %d / %d", summary.SymbolsScanned, summary.SymbolsFailed)
	}
	if summary.TotalWhaleTrades != 3 {
		t.Errorf("whale trades = %d, want 3", summary.TotalWhaleTrades)
	}
	if summary.Overall.Label != "BULLISH" {
		t.Errorf("overall = %s, want BULLISH (50M buy vs 40M sell)", summary.Overall.Label)
	}

	if len(summary.TopBullish) != 1 || summary.TopBullish[0].Symbol != "AAPL" {
		t.Errorf("top bullish = %+v", summary.TopBullish)
	}
	if len(summary.TopBearish) != 1 || summary.TopBearish[0].Symbol != "XOM" {
		t.Errorf("top bearish = %+v", summary.TopBearish)
	}

	if summary.DarkPool.TradeCount != 1 || summary.DarkPool.Value != 10_000_000 {
		t.Errorf("dark pool = %+v", summary.DarkPool)
	}

	if len(summary.Venues) != 3 {
		t.Fatalf("got %d venue rows, want 3", len(summary.Venues))
	}
	// Sorted by value: Q (50M) first.
	if summary.Venues[0].Venue != "Q" || summary.Venues[0].IsDarkPool {
		t.Errorf("first venue row = %+v", summary.Venues[0])
	}

	if len(summary.Sectors) != 2 {
		t.Errorf("got %d sector rows, want 2", len(summary.Sectors))
	}

	// Detail carries every retained trade.
	if len(detail.Tickers) != 2 {
		t.Fatalf("detail has %d tickers, want 2", len(detail.Tickers))
	}
	if len(detail.Tickers[0].Trades) != 2 {
		t.Errorf("AAPL detail has %d trades, want 2", len(detail.Tickers[0].Trades))
	}
}

func TestRenderMarkdown(t *testing.T) {
	g := NewGenerator(10).WithClock(fixedClock)
	summary, _ := g.Build(testRun())

	md := RenderMarkdown(summary)
	for _, want := range []string{
		"# Whale Trades Report",
		"| Symbols Scanned | 3 |",
		"Failed symbols: TSLA",
		"## Top Bullish Tickers",
		"| AAPL |",
		"## Venue Breakdown",
		"$50.0M",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	g := NewGenerator(10).WithClock(fixedClock)
	_, detail := g.Build(testRun())

	csv := RenderCSV(detail)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 4 { // header + 3 trades
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "symbol,trade_id,") {
		t.Errorf("header = %s", lines[0])
	}
	if !strings.Contains(csv, "AAPL,AAPL-D,") {
		t.Error("missing dark pool trade row")
	}
}

func TestWriteArtifacts(t *testing.T) {
	g := NewGenerator(10).WithClock(fixedClock)
	summary, detail := g.Build(testRun())

	dir := filepath.Join(t.TempDir(), "out")
	if err := WriteArtifacts(dir, summary, detail); err != nil {
		t.Fatalf("WriteArtifacts failed: %v", err)
	}

	for _, name := range []string{SummaryFile, DetailFile, MarkdownFile, CSVFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	if err != nil {
		t.Fatal(err)
	}
	var roundTrip Summary
	if err := json.Unmarshal(data, &roundTrip); err != nil {
		t.Fatalf("summary json invalid: %v", err)
	}
	if roundTrip.TotalWhaleTrades != summary.TotalWhaleTrades {
		t.Errorf("round trip mismatch: %d != %d", roundTrip.TotalWhaleTrades, summary.TotalWhaleTrades)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2_500_000_000, "$2.5B"},
		{50_000_000, "$50.0M"},
		{1_500, "$1.5K"},
		{999, "$999"},
		{-20_000_000, "-$20.0M"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatShares(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{1_200_000, "1.2M"},
		{10_000, "10.0K"},
		{500, "500"},
	}
	for _, tt := range tests {
		if got := FormatShares(tt.in); got != tt.want {
			t.Errorf("FormatShares(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
