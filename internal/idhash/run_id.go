package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRunID derives a deterministic scan run identifier from the
// scan window and the moment the run started. Re-running the same
// window at the same instant yields the same ID.
func ComputeRunID(windowStartMs, windowEndMs, startedAtMs int64) string {
	payload := fmt.Sprintf("%d|%d|%d", windowStartMs, windowEndMs, startedAtMs)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
