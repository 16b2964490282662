// Package ratelimit provides a token bucket limiter keyed by caller.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket limits requests per key, refilling one token per
// refill interval up to maxTokens.
type TokenBucket struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  int
	refillRate time.Duration
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucket creates a limiter with the given burst size and
// refill interval.
func NewTokenBucket(maxTokens int, refillRate time.Duration) *TokenBucket {
	return &TokenBucket{
		buckets:    make(map[string]*bucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
	}
}

// Allow reports whether a request under key may proceed, consuming a
// token when it does.
func (l *TokenBucket) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.maxTokens, lastRefill: now}
		l.buckets[key] = b
	}

	if refill := int(now.Sub(b.lastRefill) / l.refillRate); refill > 0 {
		b.tokens += refill
		if b.tokens > l.maxTokens {
			b.tokens = l.maxTokens
		}
		b.lastRefill = now
	}

	// Stale buckets are dropped opportunistically so the map does not
	// grow without bound.
	for k, old := range l.buckets {
		if now.Sub(old.lastRefill) > time.Hour && k != key {
			delete(l.buckets, k)
		}
	}

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

// Reset clears the bucket for a key.
func (l *TokenBucket) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}
