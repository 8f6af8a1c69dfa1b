// Package redact applies regex-based redaction rules to result cells before
// they leave the server, so secrets stored in the database never reach the
// agent.
package redact

import (
	"fmt"
	"regexp"
)

// Rule replaces every match of Pattern in string cells with Replacement.
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Redactor applies rules to string cells of result rows. ODBC result rows
// are flat (no nested document types), so only top-level strings are
// touched.
type Redactor struct {
	rules []compiledRule
}

// New compiles the rules. Returns an error on an invalid pattern.
func New(rules []Rule) (*Redactor, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("redact: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, replacement: r.Replacement}
	}
	return &Redactor{rules: compiled}, nil
}

// Active reports whether any rules are configured.
func (r *Redactor) Active() bool {
	return len(r.rules) > 0
}

// Rows applies the rules to every string cell, in place, and returns rows.
func (r *Redactor) Rows(rows []map[string]interface{}) []map[string]interface{} {
	if !r.Active() {
		return rows
	}
	for _, row := range rows {
		for col, v := range row {
			if s, ok := v.(string); ok {
				row[col] = r.apply(s)
			}
		}
	}
	return rows
}

func (r *Redactor) apply(s string) string {
	for _, rule := range r.rules {
		s = rule.pattern.ReplaceAllString(s, rule.replacement)
	}
	return s
}
