package service

import (
	"sync"
	"time"
)

// sweepInterval is how often idle buckets are dropped.
const sweepInterval = 5 * time.Minute

// TokenBucket is an in-memory per-key limiter. Each key starts with a full
// bucket of capacity tokens that refills at rate tokens per second.
// A nil *TokenBucket allows everything.
type TokenBucket struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      float64
	capacity  float64
	now       func() time.Time
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a limiter. It returns nil, which never limits,
// when both rate and capacity are zero.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	if rate <= 0 && capacity <= 0 {
		return nil
	}
	return &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
	}
}

// PerMinute creates a limiter refilling perMinute tokens each minute.
func PerMinute(perMinute, burst float64) *TokenBucket {
	return NewTokenBucket(perMinute/60, burst)
}

// Allow consumes one token for key and reports whether one was available.
func (tb *TokenBucket) Allow(key string) bool {
	if tb == nil {
		return true
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	tb.sweep(now)

	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	b.tokens = min(b.tokens+now.Sub(b.last).Seconds()*tb.rate, tb.capacity)
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets that have been full long enough to be indistinguishable
// from new ones. Callers hold tb.mu.
func (tb *TokenBucket) sweep(now time.Time) {
	if now.Sub(tb.lastSweep) < sweepInterval {
		return
	}
	tb.lastSweep = now
	for key, b := range tb.buckets {
		if now.Sub(b.last) > 2*sweepInterval {
			delete(tb.buckets, key)
		}
	}
}
