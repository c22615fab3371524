package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(symbol|timestamp_ms|price|size|venue)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(
	symbol string,
	timestampMs int64,
	price float64,
	size int64,
	venue string,
) string {
	data := fmt.Sprintf("%s|%d|%.6f|%d|%s",
		symbol,
		timestampMs,
		price,
		size,
		venue,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
