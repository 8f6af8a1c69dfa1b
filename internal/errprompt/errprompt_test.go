package errprompt

import (
	"strings"
	"testing"
)

func TestDefaultRuleForRejectionCodes(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := m.Suggest("NOT_A_SELECT: only SELECT queries are allowed")
	if !strings.Contains(got, "read-only SELECT") {
		t.Errorf("unexpected suggestion: %q", got)
	}

	got = m.Suggest("UNAUTHORIZED_OWNER: access to owners dbo is not authorized")
	if !strings.Contains(got, "sqlanywhere_list_tables") {
		t.Errorf("unexpected suggestion: %q", got)
	}
}

func TestDefaultRuleForNotFound(t *testing.T) {
	t.Parallel()
	m, _ := NewMatcher(nil)
	got := m.Suggest(`table "Nope" not found or access denied`)
	if !strings.Contains(got, "sqlanywhere_list_tables") {
		t.Errorf("unexpected suggestion: %q", got)
	}
}

func TestSuggestNoMatch(t *testing.T) {
	t.Parallel()
	m, _ := NewMatcher(nil)
	if got := m.Suggest("driver: connection refused"); got != "" {
		t.Errorf("expected empty suggestion, got %q", got)
	}
}

func TestExtraRulesEvaluatedAfterDefaults(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{
		{Pattern: "connection refused", Suggestion: "Check that the database server is running."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.Suggest("driver: connection refused")
	if got != "Check that the database server is running." {
		t.Errorf("unexpected suggestion: %q", got)
	}
}

func TestMultipleMatchesJoined(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{
		{Pattern: "DANGEROUS_KEYWORD", Suggestion: "extra guidance"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.Suggest("DANGEROUS_KEYWORD: dangerous keyword detected: DROP")
	if !strings.Contains(got, "\n") {
		t.Errorf("expected both suggestions joined, got %q", got)
	}
}

func TestAnnotate(t *testing.T) {
	t.Parallel()
	m, _ := NewMatcher(nil)

	msg := "LIMIT_EXCEEDS_CEILING: requested limit 50001 exceeds maximum allowed limit of 10000"
	got := m.Annotate(msg)
	if !strings.HasPrefix(got, msg) {
		t.Errorf("annotated message must keep the original error first: %q", got)
	}
	if !strings.Contains(got, "\n\nSuggestion: ") {
		t.Errorf("missing suggestion separator: %q", got)
	}

	plain := "driver: something odd"
	if got := m.Annotate(plain); got != plain {
		t.Errorf("Annotate with no match must return input unchanged, got %q", got)
	}
}

func TestNewMatcherErrorsOnInvalidRegex(t *testing.T) {
	t.Parallel()
	_, err := NewMatcher([]Rule{{Pattern: `[bad`, Suggestion: "x"}})
	if err == nil {
		t.Fatal("expected error for invalid regex pattern")
	}
}
