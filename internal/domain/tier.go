package domain

// ThresholdTier is one rung of the whale qualification ladder.
// A trade qualifies at a tier if size >= MinSize OR notional >= MinNotional
// (inclusive-or), after the symbol's size-class multiplier is applied to
// both thresholds.
type ThresholdTier struct {
	MinSize     int64   // minimum shares/contracts
	MinNotional float64 // minimum dollar notional
	Label       string  // e.g. "Notable", "Large", "Whale"
}

// Qualifies reports whether a trade meets this tier after the multiplier
// is applied to the tier thresholds.
func (t ThresholdTier) Qualifies(size int64, notional float64, multiplier float64) bool {
	return float64(size) >= float64(t.MinSize)*multiplier || notional >= t.MinNotional*multiplier
}
