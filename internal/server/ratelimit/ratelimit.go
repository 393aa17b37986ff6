// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"
)

// tokenBucket refills continuously up to its capacity.
type tokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastUsed   time.Time
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	now := time.Now()
	return &tokenBucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastUsed:   now,
	}
}

// refill must be called with mu held.
func (b *tokenBucket) refill(now time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
}

// take consumes a token if one is available and reports the bucket state afterwards.
func (b *tokenBucket) take() (ok bool, remaining int, resetAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refill(now)
	b.lastUsed = now
	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}

	remaining = int(b.tokens)
	resetAt = now
	if missing := b.capacity - b.tokens; missing > 0 && b.refillRate > 0 {
		resetAt = now.Add(time.Duration(missing / b.refillRate * float64(time.Second)))
	}
	return ok, remaining, resetAt
}

func (b *tokenBucket) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed
}

// Info describes the outcome of a rate limit check. Limit is 0 when the request
// was not subject to a limit.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client and rule.
type Limiter struct {
	config   *Config
	mu       sync.Mutex
	buckets  map[string]*tokenBucket
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter and starts its cleanup loop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = time.Hour
	}

	l := &Limiter{
		config:  config,
		buckets: make(map[string]*tokenBucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow checks and records one request from clientID.
func (l *Limiter) Allow(clientID, path, method string) Info {
	switch {
	case !l.config.Enabled, l.config.Whitelist[clientID]:
		return Info{Allowed: true}
	case l.config.Blacklist[clientID]:
		return Info{Allowed: false}
	}

	rule := Match(path, method, l.config.Rules)
	if rule == nil {
		rule = &Rule{Path: "*", Method: "*", Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if rule.Limit <= 0 {
		return Info{Allowed: true}
	}

	// Requests matching the same pattern share a bucket.
	bucket := l.bucket(clientID+" "+rule.Method+" "+rule.Path, rule)
	ok, remaining, resetAt := bucket.take()

	info := Info{
		Allowed:   ok,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: resetAt,
	}
	if !ok {
		info.RetryAfter = max(time.Until(resetAt), 0)
	}
	return info
}

func (l *Limiter) bucket(key string, rule *Rule) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}
	window := rule.Window
	if window <= 0 {
		window = time.Minute
	}
	b := newTokenBucket(burst, float64(rule.Limit)/window.Seconds())
	l.buckets[key] = b
	return b
}

// Size returns the number of live buckets.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle(time.Now().Add(-l.config.IdleTTL))
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets not used since cutoff.
func (l *Limiter) evictIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince().Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
