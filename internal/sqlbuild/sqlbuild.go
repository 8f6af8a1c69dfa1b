// Package sqlbuild constructs SELECT statements from structured parameters,
// validating each field against strict syntactic patterns before assembly.
//
// The builder's validation is defense in depth, not a trust boundary by
// itself: every statement it produces is still re-checked by the classifier
// and the authorization filter before execution.
package sqlbuild

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sawmcp/sqlanywhere-mcp/internal/reject"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// One composed pattern for the whole ORDER BY clause: a comma-separated
	// list of `identifier [ASC|DESC]?`. A single malformed segment
	// invalidates the entire clause.
	orderByPattern = regexp.MustCompile(
		`(?i)^[A-Za-z_][A-Za-z0-9_]*(\s+(ASC|DESC))?(\s*,\s*[A-Za-z_][A-Za-z0-9_]*(\s+(ASC|DESC))?)*$`)

	// Statement separators and comment markers are never legitimate in a
	// simple condition. Everything else is intentionally permitted: this
	// tool is meant for trusted simple conditions, not untrusted end-user
	// input.
	whereDenied = regexp.MustCompile(`;|--|/\*|\*/`)
)

// Spec is a structured SELECT specification. Constructed from caller input,
// validated field by field, then compiled into a raw query string.
type Spec struct {
	TableName string // owner.Table, owner prefix required
	Columns   string // "*" or comma-separated simple identifiers
	Where     string // optional simple condition
	OrderBy   string // optional "ident [ASC|DESC], ..." list
	Limit     int    // 0 means no TOP clause
}

// ValidIdentifier reports whether s is a simple SQL identifier.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ValidateTableName checks that name is exactly owner.Table. A missing
// separator and a malformed identifier are distinct errors.
func ValidateTableName(name string) error {
	if !strings.Contains(name, ".") {
		return reject.New(reject.MissingOwnerPrefix,
			"table name %q must include owner prefix in format 'owner.TableName' (e.g. 'monitor.Part', 'dbo.Customers')", name)
	}
	parts := strings.Split(name, ".")
	if len(parts) != 2 {
		return reject.New(reject.InvalidIdentifier,
			"invalid table name %q: expected exactly one owner separator", name)
	}
	for _, part := range parts {
		if !ValidIdentifier(part) {
			return reject.New(reject.InvalidIdentifier,
				"invalid table name %q: %q is not a valid identifier", name, part)
		}
	}
	return nil
}

// ValidateColumns checks that columns is "*" or a comma-separated list of
// simple identifiers. The first violation is named in the error.
func ValidateColumns(columns string) error {
	if columns == "*" {
		return nil
	}
	for _, col := range strings.Split(columns, ",") {
		if !ValidIdentifier(strings.TrimSpace(col)) {
			return reject.New(reject.InvalidIdentifier,
				"invalid column name: %q", strings.TrimSpace(col))
		}
	}
	return nil
}

// ValidateWhere rejects conditions containing a statement separator or
// comment marker. This is a narrow denylist, not full escaping.
func ValidateWhere(where string) error {
	if whereDenied.MatchString(where) {
		return reject.New(reject.InvalidIdentifier,
			"invalid characters in WHERE clause (statement separator or comment marker)")
	}
	return nil
}

// ValidateOrderBy checks the whole ORDER BY clause against one composed
// pattern.
func ValidateOrderBy(orderBy string) error {
	if !orderByPattern.MatchString(orderBy) {
		return reject.New(reject.InvalidIdentifier,
			"invalid ORDER BY clause: %q", orderBy)
	}
	return nil
}

// Build validates spec field by field, failing fast on the first violation,
// and assembles the SELECT statement in fixed order:
//
//	SELECT [TOP limit] columns FROM tableName [WHERE where] [ORDER BY orderBy]
//
// limitCeiling caps spec.Limit; a request above it is rejected, never
// silently clamped.
func Build(spec Spec, limitCeiling int) (string, error) {
	if err := ValidateTableName(spec.TableName); err != nil {
		return "", err
	}
	columns := spec.Columns
	if columns == "" {
		columns = "*"
	}
	if err := ValidateColumns(columns); err != nil {
		return "", err
	}
	if spec.Limit > limitCeiling {
		return "", reject.New(reject.LimitExceedsCeiling,
			"limit %d exceeds maximum of %d", spec.Limit, limitCeiling)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if spec.Limit > 0 {
		// SQL Anywhere uses TOP, not LIMIT.
		fmt.Fprintf(&sb, "TOP %d ", spec.Limit)
	}
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(spec.TableName)

	if spec.Where != "" {
		if err := ValidateWhere(spec.Where); err != nil {
			return "", err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(spec.Where)
	}
	if spec.OrderBy != "" {
		if err := ValidateOrderBy(spec.OrderBy); err != nil {
			return "", err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(spec.OrderBy)
	}
	return sb.String(), nil
}
