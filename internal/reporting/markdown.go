package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the summary as a Markdown report.
func RenderMarkdown(s *Summary) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Whale Trades Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Window: %s to %s (%d trading days)\n\n",
		s.WindowStart, s.WindowEnd, s.TradingDays))

	// Scan Summary
	sb.WriteString("## Scan Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Symbols Scanned | %d |\n", s.SymbolsScanned))
	sb.WriteString(fmt.Sprintf("| Symbols Failed | %d |\n", s.SymbolsFailed))
	sb.WriteString(fmt.Sprintf("| Whale Trades | %d |\n", s.TotalWhaleTrades))
	sb.WriteString(fmt.Sprintf("| Total Notional | %s |\n", FormatCurrency(s.TotalNotional)))
	sb.WriteString(fmt.Sprintf("| Sweeps | %d |\n", s.SweepCount))
	sb.WriteString("\n")

	if len(s.FailedSymbols) > 0 {
		sb.WriteString("Failed symbols: " + strings.Join(s.FailedSymbols, ", ") + "\n\n")
	}

	// Overall Sentiment
	sb.WriteString("## Overall Sentiment\n\n")
	writeSentiment(&sb, s.Overall)

	// Dark Pool
	sb.WriteString("## Dark Pool Activity\n\n")
	sb.WriteString(fmt.Sprintf("%d trades, %s (%.1f%% of whale notional), sentiment %s\n\n",
		s.DarkPool.TradeCount, FormatCurrency(s.DarkPool.Value),
		s.DarkPool.Share*100, s.DarkPool.Sentiment.Label))

	// Rankings
	if len(s.TopBullish) > 0 {
		sb.WriteString("## Top Bullish Tickers\n\n")
		writeRanking(&sb, s.TopBullish)
	}
	if len(s.TopBearish) > 0 {
		sb.WriteString("## Top Bearish Tickers\n\n")
		writeRanking(&sb, s.TopBearish)
	}

	// Sector table
	if len(s.Sectors) > 0 {
		sb.WriteString("## Sector Sentiment\n\n")
		sb.WriteString("| Sector | Tickers | Trades | Total | Net | Sentiment |\n")
		sb.WriteString("|--------|---------|--------|-------|-----|----------|\n")
		for _, row := range s.Sectors {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s | %s |\n",
				row.Sector, row.TickerCount, row.TradeCount,
				FormatCurrency(row.TotalValue), FormatCurrency(row.NetValue), row.Label))
		}
		sb.WriteString("\n")
	}

	// Venue table
	if len(s.Venues) > 0 {
		sb.WriteString("## Venue Breakdown\n\n")
		sb.WriteString("| Venue | Dark Pool | Trades | Total |\n")
		sb.WriteString("|-------|-----------|--------|-------|\n")
		for _, row := range s.Venues {
			dark := "no"
			if row.IsDarkPool {
				dark = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n",
				row.Venue, dark, row.TradeCount, FormatCurrency(row.TotalValue)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeSentiment(sb *strings.Builder, s SentimentSection) {
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Sentiment | %s |\n", s.Label))
	sb.WriteString(fmt.Sprintf("| Buy Value | %s (%d trades) |\n", FormatCurrency(s.BuyValue), s.BuyCount))
	sb.WriteString(fmt.Sprintf("| Sell Value | %s (%d trades) |\n", FormatCurrency(s.SellValue), s.SellCount))
	sb.WriteString(fmt.Sprintf("| Net Value | %s |\n", FormatCurrency(s.NetValue)))
	sb.WriteString(fmt.Sprintf("| Buy/Sell Ratio | %.2f |\n", s.BuySellRatio))
	sb.WriteString(fmt.Sprintf("| High-Confidence Sentiment | %s |\n", s.HighConfidenceLabel))
	sb.WriteString("\n")
}

func writeRanking(sb *strings.Builder, rows []TickerRankRow) {
	sb.WriteString("| Symbol | Sector | Net | Total | Trades |\n")
	sb.WriteString("|--------|--------|-----|-------|--------|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d |\n",
			row.Symbol, row.Sector,
			FormatCurrency(row.NetValue), FormatCurrency(row.TotalValue), row.TradeCount))
	}
	sb.WriteString("\n")
}
