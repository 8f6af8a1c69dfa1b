// Package errprompt appends guidance suggestions to error messages so an AI
// agent can steer itself toward a fix (for example, pointing at the
// list-tables tool after a not-found error).
package errprompt

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule maps an error-message regex to a suggestion.
type Rule struct {
	Pattern    string
	Suggestion string
}

type compiledRule struct {
	pattern    *regexp.Regexp
	suggestion string
}

// DefaultRules cover the rejections this server produces out of the box.
// Configured rules are evaluated after these.
var DefaultRules = []Rule{
	{
		Pattern:    `NOT_A_SELECT|DANGEROUS_KEYWORD`,
		Suggestion: "Only read-only SELECT statements are accepted. Rewrite the query without mutating or DDL keywords.",
	},
	{
		Pattern:    `UNAUTHORIZED_OWNER`,
		Suggestion: "Reference tables as owner.Table using an authorized owner. Use sqlanywhere_list_tables to see what is available.",
	},
	{
		Pattern:    `not found or access denied`,
		Suggestion: "Use the matching list tool (sqlanywhere_list_tables, sqlanywhere_list_views, sqlanywhere_list_procedures, sqlanywhere_list_indexes) to see available objects.",
	},
	{
		Pattern:    `LIMIT_EXCEEDS_CEILING`,
		Suggestion: "Lower the requested limit or page through results with WHERE conditions.",
	},
}

// Matcher evaluates error messages against suggestion rules.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles DefaultRules followed by extra. Returns an error on an
// invalid pattern.
func NewMatcher(extra []Rule) (*Matcher, error) {
	all := append(append([]Rule{}, DefaultRules...), extra...)
	compiled := make([]compiledRule, len(all))
	for i, r := range all {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("errprompt: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, suggestion: r.Suggestion}
	}
	return &Matcher{rules: compiled}, nil
}

// Suggest returns the suggestions whose patterns match errMsg, joined with
// newlines. Empty string when nothing matches.
func (m *Matcher) Suggest(errMsg string) string {
	var out []string
	for _, rule := range m.rules {
		if rule.pattern.MatchString(errMsg) {
			out = append(out, rule.suggestion)
		}
	}
	return strings.Join(out, "\n")
}

// Annotate appends matching suggestions to errMsg, separated by a blank
// line. Returns errMsg unchanged when nothing matches.
func (m *Matcher) Annotate(errMsg string) string {
	suggestion := m.Suggest(errMsg)
	if suggestion == "" {
		return errMsg
	}
	return errMsg + "\n\nSuggestion: " + suggestion
}
