// Package ratelimit bounds how many analyses an owner may trigger per
// rolling window. Buckets are process-local; a restart resets all limits.
package ratelimit

import (
	"sync"
	"time"

	"github.com/glowlab/skinsight/internal/application"
)

// bucket tracks remaining permits for one owner.
type bucket struct {
	tokens     int
	lastRefill time.Time
}

// Limiter is a per-owner token bucket. Capacity permits are granted per
// window; the bucket refills in full once the window has elapsed.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity int
	window   time.Duration
	clock    application.Clock
}

// NewLimiter creates a limiter with the given capacity and window.
func NewLimiter(capacity int, window time.Duration) *Limiter {
	return NewLimiterWithClock(capacity, window, application.SystemClock{})
}

// NewLimiterWithClock is the test seam.
func NewLimiterWithClock(capacity int, window time.Duration, clock application.Clock) *Limiter {
	return &Limiter{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		window:   window,
		clock:    clock,
	}
}

// CheckAndConsume takes one permit for the owner. When denied, retryAfter
// is the time until the bucket next refills and is always positive.
func (l *Limiter) CheckAndConsume(ownerID string) (retryAfter time.Duration, allowed bool) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ownerID]
	if !ok {
		// first request consumes one permit
		l.buckets[ownerID] = &bucket{tokens: l.capacity - 1, lastRefill: now}
		return 0, true
	}

	elapsed := now.Sub(b.lastRefill)
	if elapsed >= l.window {
		b.tokens = l.capacity
		b.lastRefill = now
		elapsed = 0
	}

	if b.tokens > 0 {
		b.tokens--
		return 0, true
	}

	retryAfter = l.window - elapsed
	if retryAfter <= 0 {
		retryAfter = time.Second
	}
	return retryAfter, false
}

// EvictIdle drops buckets idle long enough that their next touch would
// refill them to full capacity anyway: any bucket idle past one window is
// effectively at full capacity, so removal is lossless without a per-bucket
// token check, and the 2x cutoff only adds slack. Best-effort; correctness
// does not depend on it.
func (l *Limiter) EvictIdle() int {
	cutoff := l.clock.Now().Add(-2 * l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for owner, b := range l.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(l.buckets, owner)
			evicted++
		}
	}
	return evicted
}

// StartEviction runs EvictIdle on a ticker until stop is closed.
func (l *Limiter) StartEviction(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.EvictIdle()
		case <-stop:
			return
		}
	}
}
