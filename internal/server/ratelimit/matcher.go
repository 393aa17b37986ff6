package ratelimit

import (
	"strings"
)

// exempt lists routes that are never limited.
var exempt = map[string]bool{
	"GET /health":  true,
	"GET /metrics": true,
}

// Match returns the rule for a request, or nil when the default limit applies.
// Exempt routes get a rule with Limit 0. Exact paths win over patterns.
func Match(path, method string, rules []Rule) *Rule {
	if exempt[method+" "+path] {
		return &Rule{Path: path, Method: method}
	}

	for i := range rules {
		if rules[i].Method == method && rules[i].Path == path {
			return &rules[i]
		}
	}
	for i := range rules {
		if rules[i].Method == method && pathMatches(rules[i].Path, path) {
			return &rules[i]
		}
	}
	return nil
}

// pathMatches compares a pattern to a path segment by segment.
func pathMatches(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(path, pattern)
	}

	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != "*" && want[i] != got[i] {
			return false
		}
	}
	return true
}
