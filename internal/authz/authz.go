// Package authz enforces the owner/schema authorization boundary.
//
// An OwnerSet is the configured allowlist of owners whose objects may be
// introspected or queried. It is built once at startup and immutable
// afterwards; it backs both catalog-query filtering (via Placeholders/Args)
// and static authorization of raw query text (via Authorize).
package authz

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sawmcp/sqlanywhere-mcp/internal/reject"
)

// DefaultOwners is used when no authorized owner list is configured.
var DefaultOwners = []string{"monitor", "ExtensionsUser"}

// OwnerSet is an ordered set of case-insensitive owner names.
// Immutable after construction; safe for concurrent use.
type OwnerSet struct {
	names []string
	index map[string]struct{}
}

// NewOwnerSet builds an OwnerSet from the given names, trimming whitespace
// and dropping empties while preserving order. An empty result falls back to
// DefaultOwners so the set is never empty.
func NewOwnerSet(names []string) *OwnerSet {
	s := &OwnerSet{index: make(map[string]struct{})}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := s.index[key]; dup {
			continue
		}
		s.names = append(s.names, name)
		s.index[key] = struct{}{}
	}
	if len(s.names) == 0 {
		return NewOwnerSet(DefaultOwners)
	}
	return s
}

// ParseOwnerSet builds an OwnerSet from a comma-separated list.
func ParseOwnerSet(csv string) *OwnerSet {
	return NewOwnerSet(strings.Split(csv, ","))
}

// Contains reports whether owner is authorized (case-insensitive).
func (s *OwnerSet) Contains(owner string) bool {
	_, ok := s.index[strings.ToLower(owner)]
	return ok
}

// Names returns the owner names in configuration order.
func (s *OwnerSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of owners in the set.
func (s *OwnerSet) Len() int {
	return len(s.names)
}

// Placeholders returns "?,?,..." with one placeholder per owner, for use in
// catalog queries as `u.user_name IN (...)`.
func (s *OwnerSet) Placeholders() string {
	return strings.TrimSuffix(strings.Repeat("?,", len(s.names)), ",")
}

// Args returns the owner names as query arguments, matching Placeholders.
func (s *OwnerSet) Args() []interface{} {
	args := make([]interface{}, len(s.names))
	for i, name := range s.names {
		args[i] = name
	}
	return args
}

const ident = `[A-Za-z_][A-Za-z0-9_]*`

// ownerRef matches an owner-qualified object reference immediately following
// a FROM or JOIN token. One grammar rule covers every spelling: each token is
// independently bare, [bracketed], or "quoted", so mixed forms like
// "owner".Table are recognized too. The owner capture is groups 1-3 (exactly
// one is non-empty per match).
var ownerRef = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+` +
	`(?:\[(` + ident + `)\]|"(` + ident + `)"|(` + ident + `))` +
	`\s*\.\s*` +
	`(?:\[` + ident + `\]|"` + ident + `"|` + ident + `)`)

// ReferencedOwners extracts the distinct owner names (lower-cased) that the
// query's literal text references in FROM/JOIN clauses.
func ReferencedOwners(raw string) []string {
	seen := make(map[string]struct{})
	var owners []string
	for _, m := range ownerRef.FindAllStringSubmatch(raw, -1) {
		owner := m[1]
		if owner == "" {
			owner = m[2]
		}
		if owner == "" {
			owner = m[3]
		}
		key := strings.ToLower(owner)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		owners = append(owners, key)
	}
	return owners
}

// Authorize checks that every owner referenced in the query's FROM/JOIN
// clauses is in the set. A query with no owner-qualified references (for
// example `SELECT 1`) authorizes trivially.
//
// This is a best-effort static check over the caller's literal text, not a
// query planner: it cannot resolve subqueries, CTEs, or views that
// internally reference other owners. It is defense in depth alongside
// database-level grants, not a substitute for them.
func (s *OwnerSet) Authorize(raw string) error {
	var unauthorized []string
	for _, owner := range ReferencedOwners(raw) {
		if !s.Contains(owner) {
			unauthorized = append(unauthorized, owner)
		}
	}
	if len(unauthorized) == 0 {
		return nil
	}
	sort.Strings(unauthorized)
	authorized := s.Names()
	sort.Strings(authorized)
	return reject.New(reject.UnauthorizedOwner,
		"access to owners %s is not authorized; authorized owners: %s",
		strings.Join(unauthorized, ", "), strings.Join(authorized, ", "))
}
