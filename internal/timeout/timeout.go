// Package timeout resolves per-query execution timeouts from pattern rules.
package timeout

import (
	"fmt"
	"regexp"
	"time"
)

// Rule maps a SQL regex pattern to a timeout.
type Rule struct {
	Pattern string
	Timeout time.Duration
}

type compiledRule struct {
	pattern *regexp.Regexp
	timeout time.Duration
}

// Manager resolves query timeouts. First matching rule wins; queries that
// match no rule get the default.
type Manager struct {
	rules          []compiledRule
	defaultTimeout time.Duration
}

// NewManager compiles the rules. Returns an error on an invalid pattern or a
// non-positive timeout.
func NewManager(defaultTimeout time.Duration, rules []Rule) (*Manager, error) {
	if defaultTimeout <= 0 {
		return nil, fmt.Errorf("timeout: default timeout must be > 0")
	}
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("timeout: invalid regex pattern %q: %v", r.Pattern, err)
		}
		if r.Timeout <= 0 {
			return nil, fmt.Errorf("timeout: rule %q has non-positive timeout", r.Pattern)
		}
		compiled[i] = compiledRule{pattern: re, timeout: r.Timeout}
	}
	return &Manager{rules: compiled, defaultTimeout: defaultTimeout}, nil
}

// Resolve returns the timeout for sql and the pattern of the rule that
// matched ("" when the default applies).
func (m *Manager) Resolve(sql string) (time.Duration, string) {
	for _, rule := range m.rules {
		if rule.pattern.MatchString(sql) {
			return rule.timeout, rule.pattern.String()
		}
	}
	return m.defaultTimeout, ""
}
