package reporting

import (
	"time"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/scanner"
	"github.com/DeanFinancials/deanfi-collectors/internal/sentiment"
	"github.com/DeanFinancials/deanfi-collectors/internal/universe"
)

// RebuildRunResult re-aggregates persisted trades and sweeps into the shape
// the scanner produces, so report generation is identical for live and
// replayed runs. Sectors are resolved from the static universe map because
// the scan-time universe is not persisted.
func RebuildRunResult(run *domain.ScanRun, trades []*domain.ClassifiedTrade, sweeps []*domain.SweepGroup) *scanner.RunResult {
	bySymbol := make(map[string]*sentiment.TickerInput)
	order := make([]string, 0)
	input := func(symbol string) *sentiment.TickerInput {
		in, ok := bySymbol[symbol]
		if !ok {
			in = &sentiment.TickerInput{
				Symbol: symbol,
				Sector: universe.SectorOf(symbol),
			}
			bySymbol[symbol] = in
			order = append(order, symbol)
		}
		return in
	}
	for _, t := range trades {
		in := input(t.Trade.Symbol)
		in.Trades = append(in.Trades, t)
	}
	for _, g := range sweeps {
		in := input(g.Symbol)
		in.Sweeps = append(in.Sweeps, g)
	}

	inputs := make([]*sentiment.TickerInput, 0, len(order))
	for _, symbol := range order {
		inputs = append(inputs, bySymbol[symbol])
	}

	return &scanner.RunResult{
		Aggregates:     sentiment.Aggregate(inputs),
		SymbolsScanned: run.SymbolsScanned,
		SymbolsFailed:  run.SymbolsFailed,
		WindowStart:    time.UnixMilli(run.WindowStartMs).UTC(),
		WindowEnd:      time.UnixMilli(run.WindowEndMs).UTC(),
		TradingDays:    run.TradingDays,
	}
}
