package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSweepID computes a deterministic sweep_id using SHA256.
// Formula: SHA256(symbol|start_ms|trade_count)
// Returns hex-encoded hash (64 characters).
func ComputeSweepID(symbol string, startMs int64, tradeCount int) string {
	data := fmt.Sprintf("%s|%d|%d", symbol, startMs, tradeCount)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
