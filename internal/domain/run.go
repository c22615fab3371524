package domain

import "time"

// ScanRun is the persisted summary of one completed scan.
// Corresponds to scan_runs table in PostgreSQL.
type ScanRun struct {
	RunID          string
	StartedAtMs    int64
	FinishedAtMs   int64
	WindowStartMs  int64
	WindowEndMs    int64
	TradingDays    int
	SymbolsScanned int
	SymbolsFailed  int
	TradeCount     int
	TotalNotional  float64
	SweepCount     int
	Sentiment      Sentiment
	NetValue       float64
	CreatedAt      time.Time // set by the database
}
