package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one route for each client.
type Rule struct {
	Path   string        // path pattern; "*" matches one segment, a trailing "/" matches any suffix
	Method string        // HTTP method
	Limit  int           // requests per window; 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity (Limit when 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets unused this long are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	Rules           []Rule
}

// LoadConfig reads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !envParse("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envParse("RATE_LIMIT_DEFAULT_LIMIT", 600, strconv.Atoi),
		DefaultWindow:   envParse("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envParse("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		IdleTTL:         envParse("RATE_LIMIT_IDLE_TTL", time.Hour, time.ParseDuration),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-route limits of the review portal.
func DefaultRules() []Rule {
	return []Rule{
		// Gemini calls
		{Path: "/chat", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		// Credential endpoints
		{Path: "/signup", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/me/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 5},

		// Writes
		{Path: "/reviews", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/reviews/*", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/reviews/*/upvote", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/reviews/*/downvote", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/forum/topics", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/forum/topics/*/comments", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Server-side chart rendering
		{Path: "/charts/preview", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/dashboard/echarts", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// envParse reads key with parse, falling back to def when unset or malformed.
func envParse[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
