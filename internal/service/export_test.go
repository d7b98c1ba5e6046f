package service

import "time"

// SetClock replaces the limiter clock.
func (tb *TokenBucket) SetClock(now func() time.Time) {
	tb.now = now
}

// Len reports how many keys are tracked.
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.buckets)
}
