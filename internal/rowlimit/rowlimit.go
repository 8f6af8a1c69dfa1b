// Package rowlimit resolves effective row limits and detects result
// truncation.
package rowlimit

import (
	"fmt"

	"github.com/sawmcp/sqlanywhere-mcp/internal/reject"
)

// Policy holds the configured default limit and the hard request ceiling.
// Invariant: 0 < Default <= Ceiling, enforced by NewPolicy.
type Policy struct {
	Default int
	Ceiling int
}

// NewPolicy validates the limit configuration.
func NewPolicy(defaultLimit, ceiling int) (*Policy, error) {
	if defaultLimit <= 0 {
		return nil, fmt.Errorf("rowlimit: default limit must be > 0, got %d", defaultLimit)
	}
	if ceiling < defaultLimit {
		return nil, fmt.Errorf("rowlimit: ceiling %d must be >= default limit %d", ceiling, defaultLimit)
	}
	return &Policy{Default: defaultLimit, Ceiling: ceiling}, nil
}

// Resolve returns the effective limit for a request. requested == 0 means
// "not supplied" and resolves to the default. A request above the ceiling is
// rejected outright; callers must be told, not silently clamped.
func (p *Policy) Resolve(requested int) (int, error) {
	if requested == 0 {
		return p.Default, nil
	}
	if requested < 0 {
		return 0, reject.New(reject.LimitExceedsCeiling,
			"requested limit %d must be positive", requested)
	}
	if requested > p.Ceiling {
		return 0, reject.New(reject.LimitExceedsCeiling,
			"requested limit %d exceeds maximum allowed limit of %d", requested, p.Ceiling)
	}
	return requested, nil
}

// ProbeCount returns how many rows to request from the driver: one more than
// the effective limit, so truncation can be detected without a second
// round-trip.
func (p *Policy) ProbeCount(effectiveLimit int) int {
	return effectiveLimit + 1
}

// Truncate trims the probe row if present. Given more than effectiveLimit
// rows it returns exactly effectiveLimit rows and truncated=true; otherwise
// the rows unchanged and truncated=false.
func Truncate(rows []map[string]interface{}, effectiveLimit int) ([]map[string]interface{}, bool) {
	if len(rows) > effectiveLimit {
		return rows[:effectiveLimit], true
	}
	return rows, false
}
