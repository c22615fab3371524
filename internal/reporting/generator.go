// Package reporting turns scan results into the summary and detail
// output structures and renders them as JSON, Markdown, and CSV.
package reporting

import (
	"sort"
	"time"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/scanner"
)

// Generator builds output structures from a scan run.
type Generator struct {
	topN int
	now  func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator. topN bounds the bullish and
// bearish ranking tables.
func NewGenerator(topN int) *Generator {
	return &Generator{
		topN: topN,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Build produces the two output structures from one completed run.
func (g *Generator) Build(run *scanner.RunResult) (*Summary, *Detail) {
	generatedAt := g.now()
	aggs := run.Aggregates

	summary := &Summary{
		GeneratedAt:    generatedAt,
		WindowStart:    run.WindowStart.Format("2006-01-02"),
		WindowEnd:      run.WindowEnd.Format("2006-01-02"),
		TradingDays:    run.TradingDays,
		SymbolsScanned: run.SymbolsScanned,
		SymbolsFailed:  run.SymbolsFailed,
		FailedSymbols:  run.FailedSymbols,

		TotalWhaleTrades: aggs.Overall.TradeCount,
		TotalNotional:    aggs.Overall.TotalValue,
		SweepCount:       aggs.Overall.SweepCount,

		Overall: sentimentSection(aggs.Overall.Sentiment),
		DarkPool: DarkPoolSection{
			TradeCount: aggs.Overall.DarkPoolCount,
			Value:      aggs.Overall.DarkPoolValue,
			Share:      aggs.Overall.DarkPoolShare,
			Sentiment:  sentimentSection(aggs.Overall.DarkPool),
		},
	}

	summary.TopBullish, summary.TopBearish = rankTickers(aggs.Tickers, g.topN)
	for _, s := range aggs.Sectors {
		summary.Sectors = append(summary.Sectors, SectorRow{
			Sector:        s.Sector,
			TickerCount:   s.TickerCount,
			TradeCount:    s.TradeCount,
			TotalValue:    s.TotalValue,
			NetValue:      s.Sentiment.NetValue,
			Label:         s.Sentiment.Direction.String(),
			DarkPoolValue: s.DarkPoolValue,
		})
	}
	summary.Venues = venueBreakdown(aggs.Tickers)

	detail := &Detail{GeneratedAt: generatedAt}
	for _, t := range aggs.Tickers {
		detail.Tickers = append(detail.Tickers, tickerDetail(t))
	}

	return summary, detail
}

func sentimentSection(t domain.SentimentTotals) SentimentSection {
	return SentimentSection{
		Label:        t.Direction.String(),
		BuyCount:     t.BuyCount,
		SellCount:    t.SellCount,
		UnknownCount: t.UnknownCount,
		BuyValue:     t.BuyValue,
		SellValue:    t.SellValue,
		NetValue:     t.NetValue,
		BuySellRatio: t.BuySellRatio,

		HighConfidenceLabel:     t.HCDirection.String(),
		HighConfidenceBuyValue:  t.HCBuyValue,
		HighConfidenceSellValue: t.HCSellValue,
		HighConfidenceNetValue:  t.HCNetValue,
	}
}

// rankTickers produces the top-N bullish (largest positive net value)
// and bearish (largest negative net value) tables.
func rankTickers(tickers []*domain.TickerAggregate, topN int) (bullish, bearish []TickerRankRow) {
	row := func(t *domain.TickerAggregate) TickerRankRow {
		return TickerRankRow{
			Symbol:     t.Symbol,
			Sector:     t.Sector,
			NetValue:   t.Sentiment.NetValue,
			TotalValue: t.TotalValue,
			TradeCount: t.TradeCount,
			Label:      t.Sentiment.Direction.String(),
		}
	}

	sorted := make([]*domain.TickerAggregate, len(tickers))
	copy(sorted, tickers)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sentiment.NetValue > sorted[j].Sentiment.NetValue
	})
	for _, t := range sorted {
		if t.Sentiment.NetValue <= 0 || len(bullish) == topN {
			break
		}
		bullish = append(bullish, row(t))
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sentiment.NetValue < sorted[j].Sentiment.NetValue
	})
	for _, t := range sorted {
		if t.Sentiment.NetValue >= 0 || len(bearish) == topN {
			break
		}
		bearish = append(bearish, row(t))
	}
	return bullish, bearish
}

// venueBreakdown tallies trade count and value per venue code, sorted
// by value descending.
func venueBreakdown(tickers []*domain.TickerAggregate) []VenueRow {
	byVenue := make(map[string]*VenueRow)
	for _, t := range tickers {
		for i := range t.Trades {
			c := &t.Trades[i]
			row, ok := byVenue[c.Trade.Venue]
			if !ok {
				row = &VenueRow{Venue: c.Trade.Venue, IsDarkPool: c.IsDarkPool}
				byVenue[c.Trade.Venue] = row
			}
			row.TradeCount++
			row.TotalValue += c.Trade.Notional
		}
	}

	rows := make([]VenueRow, 0, len(byVenue))
	for _, row := range byVenue {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalValue != rows[j].TotalValue {
			return rows[i].TotalValue > rows[j].TotalValue
		}
		return rows[i].Venue < rows[j].Venue
	})
	return rows
}

func tickerDetail(t *domain.TickerAggregate) TickerDetail {
	d := TickerDetail{
		Symbol:        t.Symbol,
		Sector:        t.Sector,
		Sentiment:     sentimentSection(t.Sentiment),
		TotalValue:    t.TotalValue,
		DarkPoolShare: t.DarkPoolShare,
		SweepCount:    t.SweepCount,
	}
	for i := range t.Trades {
		c := &t.Trades[i]
		d.Trades = append(d.Trades, TradeRow{
			TradeID:             c.TradeID,
			TimestampMs:         c.Trade.TimestampMs,
			Price:               c.Trade.Price,
			Size:                c.Trade.Size,
			Notional:            c.Trade.Notional,
			Venue:               c.Trade.Venue,
			IsDarkPool:          c.IsDarkPool,
			Direction:           c.Direction.String(),
			DirectionConfidence: c.DirectionConfidence,
			TierLabel:           c.TierLabel,
			IsSweep:             c.IsSweep,
			SweepID:             c.SweepID,
		})
	}
	return d
}
