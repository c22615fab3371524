// Package sentiment reduces classified whale trades into ticker, sector,
// and universe-level sentiment summaries. All reductions are pure
// functions of their inputs and recomputable at any time.
package sentiment

import (
	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// ComputeTotals reduces a trade set to directional totals. UNKNOWN trades
// count toward volume but are excluded from directional sums.
func ComputeTotals(trades []*domain.ClassifiedTrade) domain.SentimentTotals {
	var t domain.SentimentTotals
	for _, c := range trades {
		switch c.Direction {
		case domain.DirectionBuy:
			t.BuyCount++
			t.BuyValue += c.Trade.Notional
			if c.HighConfidence() {
				t.HCBuyCount++
				t.HCBuyValue += c.Trade.Notional
			}
		case domain.DirectionSell:
			t.SellCount++
			t.SellValue += c.Trade.Notional
			if c.HighConfidence() {
				t.HCSellCount++
				t.HCSellValue += c.Trade.Notional
			}
		default:
			t.UnknownCount++
		}
	}

	t.NetValue = t.BuyValue - t.SellValue
	t.BuySellRatio = buySellRatio(t.BuyValue, t.SellValue)
	t.Direction = Label(t.BuyValue, t.SellValue)

	t.HCNetValue = t.HCBuyValue - t.HCSellValue
	t.HCDirection = Label(t.HCBuyValue, t.HCSellValue)
	return t
}

// Label maps buy/sell notional totals to a sentiment label. Exact
// equality, including zero activity, is NEUTRAL.
func Label(buyValue, sellValue float64) domain.Sentiment {
	switch {
	case buyValue > sellValue:
		return domain.SentimentBullish
	case sellValue > buyValue:
		return domain.SentimentBearish
	default:
		return domain.SentimentNeutral
	}
}

// buySellRatio reports buy value over sell value, capped at the sentinel
// when sell value is zero and buy value positive. Zero on no activity.
func buySellRatio(buyValue, sellValue float64) float64 {
	if sellValue > 0 {
		r := buyValue / sellValue
		if r > domain.BuySellRatioCap {
			return domain.BuySellRatioCap
		}
		return r
	}
	if buyValue > 0 {
		return domain.BuySellRatioCap
	}
	return 0
}
