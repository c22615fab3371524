package domain

// Direction is the inferred trade initiator side.
type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionUnknown Direction = "UNKNOWN"
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	return string(d)
}

// IsValid checks if the direction is a valid value.
func (d Direction) IsValid() bool {
	return d == DirectionBuy || d == DirectionSell || d == DirectionUnknown
}

// HighConfidenceFloor is the minimum direction confidence for a trade to
// count toward the high-confidence sentiment split.
const HighConfidenceFloor = 80

// ClassifiedTrade wraps a retained Trade with derived classification
// fields. The embedded Trade is never modified.
// Corresponds to whale_trades table in PostgreSQL.
type ClassifiedTrade struct {
	TradeID string // deterministic hash
	Trade   Trade

	Direction           Direction // BUY | SELL | UNKNOWN
	DirectionConfidence int       // 0-100
	IsDarkPool          bool      // off-exchange reporting venue
	TierLabel           string    // qualifying tier label
	SweepID             *string   // nil unless part of a sweep
	IsSweep             bool
}

// HighConfidence reports whether the trade counts toward the
// high-confidence sentiment split.
func (c *ClassifiedTrade) HighConfidence() bool {
	return c.DirectionConfidence >= HighConfidenceFloor
}
