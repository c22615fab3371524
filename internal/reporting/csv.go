package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the detail trades as CSV, one row per whale trade.
func RenderCSV(d *Detail) string {
	var sb strings.Builder

	// Header
	sb.WriteString("symbol,trade_id,timestamp_ms,price,size,notional,venue,is_dark_pool,")
	sb.WriteString("direction,direction_confidence,tier_label,is_sweep,sweep_id\n")

	// Rows
	for _, t := range d.Tickers {
		for _, row := range t.Trades {
			sweepID := ""
			if row.SweepID != nil {
				sweepID = *row.SweepID
			}
			sb.WriteString(fmt.Sprintf("%s,%s,%d,%.4f,%d,%.2f,%s,%t,%s,%d,%s,%t,%s\n",
				t.Symbol,
				row.TradeID,
				row.TimestampMs,
				row.Price,
				row.Size,
				row.Notional,
				row.Venue,
				row.IsDarkPool,
				row.Direction,
				row.DirectionConfidence,
				row.TierLabel,
				row.IsSweep,
				sweepID,
			))
		}
	}

	return sb.String()
}
