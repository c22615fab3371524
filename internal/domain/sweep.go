package domain

// SweepGroup is a maximal run of temporally clustered trades on one
// symbol, suggesting a single aggressive order filled across multiple
// prints. Members are referenced by trade ID, not duplicated.
type SweepGroup struct {
	SweepID       string   // deterministic hash
	Symbol        string   // underlying symbol for option sweeps
	TradeIDs      []string // member trade IDs, timestamp order
	StartMs       int64    // first member timestamp
	EndMs         int64    // last member timestamp
	TotalSize     int64    // summed member sizes
	TotalValue    float64  // summed member notionals
	CrossContract bool     // option sweep spanning multiple contracts
}

// Count returns the number of member trades.
func (g *SweepGroup) Count() int {
	return len(g.TradeIDs)
}
