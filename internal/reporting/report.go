package reporting

import "time"

// Summary is the run-level output structure, serialized to
// whales_summary.json.
type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`

	// Scan metadata: consumers judge completeness from these fields
	// without the run having failed.
	WindowStart    string   `json:"window_start"`
	WindowEnd      string   `json:"window_end"`
	TradingDays    int      `json:"trading_days"`
	SymbolsScanned int      `json:"symbols_scanned"`
	SymbolsFailed  int      `json:"symbols_failed"`
	FailedSymbols  []string `json:"failed_symbols,omitempty"`

	TotalWhaleTrades int     `json:"total_whale_trades"`
	TotalNotional    float64 `json:"total_notional"`
	SweepCount       int     `json:"sweep_count"`

	Overall  SentimentSection `json:"overall"`
	DarkPool DarkPoolSection  `json:"dark_pool"`

	TopBullish []TickerRankRow `json:"top_bullish"`
	TopBearish []TickerRankRow `json:"top_bearish"`
	Sectors    []SectorRow     `json:"sectors"`
	Venues     []VenueRow      `json:"venues"`
}

// SentimentSection is a directional reduction in output form.
type SentimentSection struct {
	Label        string  `json:"label"`
	BuyCount     int     `json:"buy_count"`
	SellCount    int     `json:"sell_count"`
	UnknownCount int     `json:"unknown_count"`
	BuyValue     float64 `json:"buy_value"`
	SellValue    float64 `json:"sell_value"`
	NetValue     float64 `json:"net_value"`
	BuySellRatio float64 `json:"buy_sell_ratio"`

	HighConfidenceLabel     string  `json:"high_confidence_label"`
	HighConfidenceBuyValue  float64 `json:"high_confidence_buy_value"`
	HighConfidenceSellValue float64 `json:"high_confidence_sell_value"`
	HighConfidenceNetValue  float64 `json:"high_confidence_net_value"`
}

// DarkPoolSection is the off-exchange slice of the run.
type DarkPoolSection struct {
	TradeCount int              `json:"trade_count"`
	Value      float64          `json:"value"`
	Share      float64          `json:"share"`
	Sentiment  SentimentSection `json:"sentiment"`
}

// TickerRankRow is one entry in the top-N tables.
type TickerRankRow struct {
	Symbol     string  `json:"symbol"`
	Sector     string  `json:"sector,omitempty"`
	NetValue   float64 `json:"net_value"`
	TotalValue float64 `json:"total_value"`
	TradeCount int     `json:"trade_count"`
	Label      string  `json:"label"`
}

// SectorRow is one row of the sector sentiment table.
type SectorRow struct {
	Sector        string  `json:"sector"`
	TickerCount   int     `json:"ticker_count"`
	TradeCount    int     `json:"trade_count"`
	TotalValue    float64 `json:"total_value"`
	NetValue      float64 `json:"net_value"`
	Label         string  `json:"label"`
	DarkPoolValue float64 `json:"dark_pool_value"`
}

// VenueRow is one row of the venue breakdown table.
type VenueRow struct {
	Venue      string  `json:"venue"`
	IsDarkPool bool    `json:"is_dark_pool"`
	TradeCount int     `json:"trade_count"`
	TotalValue float64 `json:"total_value"`
}

// Detail is the per-ticker output structure, serialized to
// whales_detail.json.
type Detail struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Tickers     []TickerDetail `json:"tickers"`
}

// TickerDetail carries one symbol's retained trades and its own
// sentiment summary.
type TickerDetail struct {
	Symbol        string           `json:"symbol"`
	Sector        string           `json:"sector,omitempty"`
	Sentiment     SentimentSection `json:"sentiment"`
	TotalValue    float64          `json:"total_value"`
	DarkPoolShare float64          `json:"dark_pool_share"`
	SweepCount    int              `json:"sweep_count"`
	Trades        []TradeRow       `json:"trades"`
}

// TradeRow is one classified whale trade on the output wire.
type TradeRow struct {
	TradeID             string  `json:"trade_id"`
	TimestampMs         int64   `json:"timestamp_ms"`
	Price               float64 `json:"price"`
	Size                int64   `json:"size"`
	Notional            float64 `json:"notional"`
	Venue               string  `json:"venue"`
	IsDarkPool          bool    `json:"is_dark_pool"`
	Direction           string  `json:"direction"`
	DirectionConfidence int     `json:"direction_confidence"`
	TierLabel           string  `json:"tier_label"`
	IsSweep             bool    `json:"is_sweep"`
	SweepID             *string `json:"sweep_id,omitempty"`
}
