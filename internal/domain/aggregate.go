package domain

// Sentiment labels derived from buy/sell notional totals.
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// String returns the string representation of Sentiment.
func (s Sentiment) String() string {
	return string(s)
}

// BuySellRatioCap is the sentinel reported when sell value is zero but
// buy value is positive (ratio would be infinite).
const BuySellRatioCap = 999.99

// SentimentTotals is the directional reduction over a set of classified
// trades. Recomputable at any time from its constituents.
type SentimentTotals struct {
	Direction    Sentiment
	BuyCount     int
	SellCount    int
	UnknownCount int
	BuyValue     float64
	SellValue    float64
	NetValue     float64
	BuySellRatio float64

	// High-confidence split: same reduction restricted to trades with
	// confidence >= HighConfidenceFloor.
	HCDirection Sentiment
	HCBuyCount  int
	HCSellCount int
	HCBuyValue  float64
	HCSellValue float64
	HCNetValue  float64
}

// TickerAggregate is the per-symbol rollup of classified trades.
type TickerAggregate struct {
	Symbol     string
	Sector     string
	TradeCount int
	TotalValue float64 // all retained whale notional, UNKNOWN included
	TotalSize  int64

	Sentiment SentimentTotals

	DarkPoolCount int
	DarkPoolValue float64
	DarkPoolShare float64 // dark-pool value / total whale value
	DarkPool      SentimentTotals

	SweepCount int
	Sweeps     []SweepGroup

	Trades []ClassifiedTrade // retained trades, timestamp order
}

// SectorAggregate sums ticker aggregates across one sector.
type SectorAggregate struct {
	Sector        string
	TickerCount   int
	TradeCount    int
	TotalValue    float64
	Sentiment     SentimentTotals
	DarkPoolValue float64
}

// OverallAggregate sums across the whole scanned universe.
type OverallAggregate struct {
	TradeCount    int
	TotalValue    float64
	Sentiment     SentimentTotals
	DarkPool      SentimentTotals
	DarkPoolCount int
	DarkPoolValue float64
	DarkPoolShare float64
	SweepCount    int
}
