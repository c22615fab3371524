package sentiment

import (
	"sort"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// TickerInput is one symbol's classified pipeline output, ready for
// aggregation.
type TickerInput struct {
	Symbol string
	Sector string
	Trades []*domain.ClassifiedTrade
	Sweeps []*domain.SweepGroup
}

// Result holds the three aggregation levels. Ticker and sector slices are
// sorted by their keys so floating-point summation order, and therefore
// every total, is reproducible across runs.
type Result struct {
	Tickers []*domain.TickerAggregate
	Sectors []*domain.SectorAggregate
	Overall domain.OverallAggregate
}

// Aggregate reduces per-ticker classified trades into ticker, sector, and
// overall summaries. Input order does not matter; tickers are sorted by
// symbol before any summation.
func Aggregate(inputs []*TickerInput) *Result {
	sorted := make([]*TickerInput, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Symbol < sorted[j].Symbol
	})

	res := &Result{}
	for _, in := range sorted {
		res.Tickers = append(res.Tickers, AggregateTicker(in))
	}
	res.Sectors = aggregateSectors(res.Tickers)
	res.Overall = aggregateOverall(sorted, res.Tickers)
	return res
}

// AggregateTicker rolls one symbol's classified trades into its
// per-ticker summary.
func AggregateTicker(in *TickerInput) *domain.TickerAggregate {
	agg := &domain.TickerAggregate{
		Symbol:     in.Symbol,
		Sector:     in.Sector,
		TradeCount: len(in.Trades),
		Sentiment:  ComputeTotals(in.Trades),
		SweepCount: len(in.Sweeps),
	}

	trades := make([]*domain.ClassifiedTrade, len(in.Trades))
	copy(trades, in.Trades)
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Trade.TimestampMs < trades[j].Trade.TimestampMs
	})

	var darkTrades []*domain.ClassifiedTrade
	for _, c := range trades {
		agg.TotalValue += c.Trade.Notional
		agg.TotalSize += c.Trade.Size
		if c.IsDarkPool {
			agg.DarkPoolCount++
			agg.DarkPoolValue += c.Trade.Notional
			darkTrades = append(darkTrades, c)
		}
		agg.Trades = append(agg.Trades, *c)
	}
	agg.DarkPool = ComputeTotals(darkTrades)
	if agg.TotalValue > 0 {
		agg.DarkPoolShare = agg.DarkPoolValue / agg.TotalValue
	}

	for _, s := range in.Sweeps {
		agg.Sweeps = append(agg.Sweeps, *s)
	}
	return agg
}

// aggregateSectors groups ticker aggregates by sector name. Tickers with
// no sector mapping fall into the "Unknown" bucket.
func aggregateSectors(tickers []*domain.TickerAggregate) []*domain.SectorAggregate {
	bySector := make(map[string]*domain.SectorAggregate)
	var names []string

	type sums struct{ buy, sell float64 }
	values := make(map[string]*sums)

	for _, t := range tickers {
		sector := t.Sector
		if sector == "" {
			sector = "Unknown"
		}
		agg, ok := bySector[sector]
		if !ok {
			agg = &domain.SectorAggregate{Sector: sector}
			bySector[sector] = agg
			values[sector] = &sums{}
			names = append(names, sector)
		}
		agg.TickerCount++
		agg.TradeCount += t.TradeCount
		agg.TotalValue += t.TotalValue
		agg.DarkPoolValue += t.DarkPoolValue
		accumulateTotals(&agg.Sentiment, t.Sentiment)
		values[sector].buy += t.Sentiment.BuyValue
		values[sector].sell += t.Sentiment.SellValue
	}

	sort.Strings(names)
	out := make([]*domain.SectorAggregate, 0, len(names))
	for _, name := range names {
		agg := bySector[name]
		finalizeTotals(&agg.Sentiment)
		out = append(out, agg)
	}
	return out
}

// aggregateOverall sums across the whole scanned universe, in symbol
// order.
func aggregateOverall(inputs []*TickerInput, tickers []*domain.TickerAggregate) domain.OverallAggregate {
	var overall domain.OverallAggregate

	var darkTrades []*domain.ClassifiedTrade
	for i, t := range tickers {
		overall.TradeCount += t.TradeCount
		overall.TotalValue += t.TotalValue
		overall.DarkPoolCount += t.DarkPoolCount
		overall.DarkPoolValue += t.DarkPoolValue
		overall.SweepCount += t.SweepCount
		accumulateTotals(&overall.Sentiment, t.Sentiment)

		for _, c := range inputs[i].Trades {
			if c.IsDarkPool {
				darkTrades = append(darkTrades, c)
			}
		}
	}
	finalizeTotals(&overall.Sentiment)
	overall.DarkPool = ComputeTotals(darkTrades)
	if overall.TotalValue > 0 {
		overall.DarkPoolShare = overall.DarkPoolValue / overall.TotalValue
	}
	return overall
}

// accumulateTotals adds one reduction's counters and values into an
// accumulator. Derived fields are left for finalizeTotals.
func accumulateTotals(dst *domain.SentimentTotals, src domain.SentimentTotals) {
	dst.BuyCount += src.BuyCount
	dst.SellCount += src.SellCount
	dst.UnknownCount += src.UnknownCount
	dst.BuyValue += src.BuyValue
	dst.SellValue += src.SellValue
	dst.HCBuyCount += src.HCBuyCount
	dst.HCSellCount += src.HCSellCount
	dst.HCBuyValue += src.HCBuyValue
	dst.HCSellValue += src.HCSellValue
}

// finalizeTotals recomputes the derived fields after accumulation.
func finalizeTotals(t *domain.SentimentTotals) {
	t.NetValue = t.BuyValue - t.SellValue
	t.BuySellRatio = buySellRatio(t.BuyValue, t.SellValue)
	t.Direction = Label(t.BuyValue, t.SellValue)
	t.HCNetValue = t.HCBuyValue - t.HCSellValue
	t.HCDirection = Label(t.HCBuyValue, t.HCSellValue)
}
