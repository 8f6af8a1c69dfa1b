package redact

import (
	"testing"
)

func TestRowsAppliesRules(t *testing.T) {
	t.Parallel()
	r, err := New([]Rule{
		{Pattern: `\b\d{3}-\d{2}-\d{4}\b`, Replacement: "[REDACTED-SSN]"},
		{Pattern: `(?i)secret`, Replacement: "[REDACTED]"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := []map[string]interface{}{
		{"ssn": "123-45-6789", "note": "top Secret plan", "count": 7},
	}
	got := r.Rows(rows)

	if got[0]["ssn"] != "[REDACTED-SSN]" {
		t.Errorf("ssn not redacted: %v", got[0]["ssn"])
	}
	if got[0]["note"] != "top [REDACTED] plan" {
		t.Errorf("note not redacted: %v", got[0]["note"])
	}
	if got[0]["count"] != 7 {
		t.Errorf("non-string cell must be untouched: %v", got[0]["count"])
	}
}

func TestInactiveRedactorPassesThrough(t *testing.T) {
	t.Parallel()
	r, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Active() {
		t.Error("empty redactor must be inactive")
	}

	rows := []map[string]interface{}{{"a": "123-45-6789"}}
	got := r.Rows(rows)
	if got[0]["a"] != "123-45-6789" {
		t.Errorf("inactive redactor must not modify rows: %v", got[0]["a"])
	}
}

func TestRulesApplyInOrder(t *testing.T) {
	t.Parallel()
	r, err := New([]Rule{
		{Pattern: "a", Replacement: "b"},
		{Pattern: "b", Replacement: "c"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := r.Rows([]map[string]interface{}{{"x": "a"}})
	if rows[0]["x"] != "c" {
		t.Errorf("expected sequential application a->b->c, got %v", rows[0]["x"])
	}
}

func TestNewErrorsOnInvalidRegex(t *testing.T) {
	t.Parallel()
	if _, err := New([]Rule{{Pattern: `[oops`, Replacement: "x"}}); err == nil {
		t.Fatal("expected error for invalid regex pattern")
	}
}
