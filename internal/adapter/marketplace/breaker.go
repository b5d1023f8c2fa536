package marketplace

import (
	"sync"
	"time"
)

// Breaker guards the marketplace endpoint: after threshold consecutive
// failures calls are rejected until cooldown has elapsed since the last
// failure. A quantitySold of zero counts toward the threshold too, since an
// empty marketplace is backed off like a broken one.
type Breaker struct {
	mu          sync.Mutex
	threshold   int
	cooldown    time.Duration
	failures    int
	lastFailure time.Time
	now         func() time.Time
}

// NewBreaker constructs a closed breaker.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// Allow reports whether a call may proceed. An open breaker whose cooldown
// has elapsed is reset to closed before returning true.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.threshold {
		return true
	}
	if b.now().Sub(b.lastFailure) < b.cooldown {
		return false
	}
	b.failures = 0
	return true
}

// Failure records one failed attempt.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = b.now()
}

// Reset clears accumulated failures after a successful call.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
}

// Failures returns the current consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
