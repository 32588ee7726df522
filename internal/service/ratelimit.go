package service

import (
	"sync"
	"time"
)

// RateLimiter is an in-memory per-key token bucket, used to slow down
// credential stuffing on the register and login endpoints. It is safe
// for concurrent use; stale buckets are cleaned up in the background.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	refill  float64 // tokens added per second
	burst   float64 // maximum tokens per key
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing up to burst requests per key,
// refilling at the given rate in tokens per second. It starts a background
// goroutine that periodically drops idle buckets.
func NewRateLimiter(refill, burst float64) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		refill:  refill,
		burst:   burst,
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether the key may proceed, consuming one token if so.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.burst, lastSeen: time.Now()}
		rl.buckets[key] = b
	}

	now := time.Now()
	elapsed := now.Sub(b.lastSeen).Seconds()
	b.tokens = min(b.tokens+elapsed*rl.refill, rl.burst)
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// cleanup drops buckets that have been idle for 10 minutes.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for key, b := range rl.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}
