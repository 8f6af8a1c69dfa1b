// Package guard classifies raw SQL strings as permitted read-only statements.
//
// This is a denylist, not a parser: a blocked keyword appearing inside a
// string literal or comment still rejects the query. False positives are
// acceptable, false negatives are not.
package guard

import (
	"regexp"
	"strings"

	"github.com/sawmcp/sqlanywhere-mcp/internal/reject"
)

// blockedKeywords are mutating/DDL keywords that reject a query wherever
// they appear as a whole word, regardless of case.
var blockedKeywords = []string{
	"DROP", "DELETE", "INSERT", "UPDATE", "CREATE", "ALTER",
	"TRUNCATE", "GRANT", "REVOKE", "EXEC", "EXECUTE",
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

var keywordPatterns = compileKeywordPatterns()

func compileKeywordPatterns() []keywordPattern {
	patterns := make([]keywordPattern, len(blockedKeywords))
	for i, kw := range blockedKeywords {
		patterns[i] = keywordPattern{
			keyword: kw,
			re:      regexp.MustCompile(`(?i)\b` + kw + `\b`),
		}
	}
	return patterns
}

var fromPattern = regexp.MustCompile(`(?i)\bFROM\b`)

// Classify checks that raw is a permitted read-only statement: it must start
// with SELECT after trimming, and must not contain any blocked keyword.
// Returns nil if accepted, a *reject.Rejection otherwise. Pure function.
func Classify(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return reject.New(reject.NotASelect,
			"only SELECT queries are allowed for security reasons; the query must start with 'SELECT'")
	}
	for _, p := range keywordPatterns {
		if p.re.MatchString(trimmed) {
			return reject.New(reject.DangerousKeyword,
				"dangerous keyword detected: %s; only SELECT queries are allowed", p.keyword)
		}
	}
	return nil
}

// ValidateOnly performs the Classify checks plus a basic shape check that a
// FROM token is present. It never touches the database.
func ValidateOnly(raw string) error {
	if err := Classify(raw); err != nil {
		return err
	}
	if !fromPattern.MatchString(raw) {
		return reject.New(reject.MissingFrom, "SELECT query must include a FROM clause")
	}
	return nil
}
