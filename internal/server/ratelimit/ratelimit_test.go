package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_Take(t *testing.T) {
	b := newTokenBucket(3, 1)

	for i := 0; i < 3; i++ {
		ok, remaining, _ := b.take()
		require.True(t, ok, "request %d", i+1)
		assert.Equal(t, 2-i, remaining)
	}

	ok, _, resetAt := b.take()
	assert.False(t, ok)
	assert.True(t, resetAt.After(time.Now()))
}

func TestTokenBucket_Refill(t *testing.T) {
	b := newTokenBucket(1, 20) // one token every 50ms

	ok, _, _ := b.take()
	require.True(t, ok)
	ok, _, _ = b.take()
	require.False(t, ok)

	time.Sleep(80 * time.Millisecond)
	ok, _, _ = b.take()
	assert.True(t, ok)
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		info := l.Allow("10.0.0.1", "/reviews", "GET")
		require.True(t, info.Allowed)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	info := l.Allow("10.0.0.1", "/reviews", "GET")
	assert.False(t, info.Allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	assert.True(t, l.Allow("10.0.0.2", "/reviews", "GET").Allowed, "clients are limited independently")
}

func TestLimiter_RuleSharedAcrossIDs(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/reviews/*/upvote", Method: "POST", Limit: 2, Window: time.Hour},
		},
	})
	defer l.Stop()

	assert.True(t, l.Allow("c", "/reviews/a/upvote", "POST").Allowed)
	assert.True(t, l.Allow("c", "/reviews/b/upvote", "POST").Allowed)

	info := l.Allow("c", "/reviews/c/upvote", "POST")
	assert.False(t, info.Allowed)
	assert.Equal(t, 2, info.Limit)

	info = l.Allow("c", "/reviews/c", "GET")
	assert.True(t, info.Allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_Burst(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled: true,
		Rules:   []Rule{{Path: "/chat", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3}},
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("c", "/chat", "POST").Allowed)
	}
	assert.False(t, l.Allow("c", "/chat", "POST").Allowed)
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:      true,
		DefaultLimit: 1,
		Whitelist:    map[string]bool{"good": true},
		Blacklist:    map[string]bool{"bad": true},
	})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		info := l.Allow("good", "/x", "GET")
		assert.True(t, info.Allowed)
		assert.Equal(t, 0, info.Limit)
	}
	assert.False(t, l.Allow("bad", "/x", "GET").Allowed)

	disabled := NewLimiter(&Config{Enabled: false})
	defer disabled.Stop()
	for i := 0; i < 10; i++ {
		assert.True(t, disabled.Allow("c", "/x", "GET").Allowed)
	}
}

func TestLimiter_ExemptRoutes(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("c", "/health", "GET").Allowed)
		assert.True(t, l.Allow("c", "/metrics", "GET").Allowed)
	}
	assert.Equal(t, 0, l.Size())
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})
	defer l.Stop()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("c", "/x", "GET").Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowed.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 10})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/x", "GET")
	}
	require.Equal(t, 5, l.Size())

	l.evictIdle(time.Now().Add(-time.Hour))
	assert.Equal(t, 5, l.Size(), "recent buckets survive")

	l.evictIdle(time.Now().Add(time.Second))
	assert.Equal(t, 0, l.Size())
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	require.NotNil(t, l)
	l.Stop()
	l.Stop()
}

func TestMatch(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		path, method string
		wantPath     string
		wantLimit    int
		wantNil      bool
	}{
		{path: "/chat", method: "POST", wantPath: "/chat", wantLimit: 20},
		{path: "/reviews/123/upvote", method: "POST", wantPath: "/reviews/*/upvote", wantLimit: 60},
		{path: "/reviews/123", method: "DELETE", wantPath: "/reviews/*", wantLimit: 60},
		{path: "/forum/topics/9/comments", method: "POST", wantPath: "/forum/topics/*/comments", wantLimit: 60},
		{path: "/health", method: "GET", wantPath: "/health", wantLimit: 0},
		{path: "/reviews", method: "GET", wantNil: true},
		{path: "/reviews/123/upvote/extra", method: "POST", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rule := Match(tt.path, tt.method, rules)
			if tt.wantNil {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantPath, rule.Path)
			assert.Equal(t, tt.wantLimit, rule.Limit)
		})
	}
}

func TestPathMatches_PrefixPattern(t *testing.T) {
	assert.True(t, pathMatches("/static/", "/static/dashboard.js"))
	assert.False(t, pathMatches("/static/", "/other"))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)
	assert.NotEmpty(t, cfg.Rules)

	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "lots")
	assert.Equal(t, 600, LoadConfig().DefaultLimit)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
