// Package ratelimit provides the token bucket shared by all scan workers.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Bucket implements token bucket rate limiting. One bucket is shared by
// every worker in a scan; acquisition is a single synchronized operation.
type Bucket struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex

	now func() time.Time
}

// PerMinute builds a bucket sized for a requests-per-minute budget. The
// bucket starts full so a run's first burst is not throttled.
func PerMinute(requests int) *Bucket {
	return NewBucket(requests, time.Minute/time.Duration(requests))
}

// NewBucket creates a bucket holding up to maxTokens tokens, refilling
// one token every refillRate.
func NewBucket(maxTokens int, refillRate time.Duration) *Bucket {
	return &Bucket{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
		now:            time.Now,
	}
}

// Wait blocks until a token is available or the context is done.
func (b *Bucket) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if b.TryAcquire() {
				return nil
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// TryAcquire attempts to consume a token without blocking.
func (b *Bucket) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Refill tokens based on time elapsed
	now := b.now()
	elapsed := now.Sub(b.lastRefillTime)
	tokensToAdd := int(elapsed / b.refillRate)

	if tokensToAdd > 0 {
		b.tokens += tokensToAdd
		if b.tokens > b.maxTokens {
			b.tokens = b.maxTokens
		}
		b.lastRefillTime = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}
