package timeout

import (
	"strings"
	"testing"
	"time"
)

func TestResolveFirstMatchWins(t *testing.T) {
	t.Parallel()
	m, err := NewManager(30*time.Second, []Rule{
		{Pattern: "SYSTAB", Timeout: 5 * time.Second},
		{Pattern: "JOIN", Timeout: 60 * time.Second},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, pattern := m.Resolve("SELECT * FROM SYS.SYSTAB JOIN SYS.SYSUSER ON 1=1")
	if got != 5*time.Second {
		t.Errorf("expected 5s (first match wins), got %v", got)
	}
	if pattern != "SYSTAB" {
		t.Errorf("expected pattern 'SYSTAB', got %q", pattern)
	}
}

func TestResolveDefault(t *testing.T) {
	t.Parallel()
	m, err := NewManager(30*time.Second, []Rule{
		{Pattern: "SYSTAB", Timeout: 5 * time.Second},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, pattern := m.Resolve("SELECT 1")
	if got != 30*time.Second {
		t.Errorf("expected 30s (default), got %v", got)
	}
	if pattern != "" {
		t.Errorf("expected empty pattern for default timeout, got %q", pattern)
	}
}

func TestResolveNoRules(t *testing.T) {
	t.Parallel()
	m, err := NewManager(30*time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := m.Resolve("SELECT 1")
	if got != 30*time.Second {
		t.Errorf("expected 30s (default), got %v", got)
	}
}

func TestNewManagerErrorsOnInvalidRegex(t *testing.T) {
	t.Parallel()
	_, err := NewManager(30*time.Second, []Rule{
		{Pattern: `[invalid`, Timeout: 5 * time.Second},
	})
	if err == nil {
		t.Fatal("expected error for invalid regex pattern")
	}
	if !strings.Contains(err.Error(), "[invalid") {
		t.Fatalf("expected error to contain the invalid pattern, got: %s", err)
	}
}

func TestNewManagerErrorsOnNonPositiveValues(t *testing.T) {
	t.Parallel()
	if _, err := NewManager(0, nil); err == nil {
		t.Error("expected error for zero default timeout")
	}
	if _, err := NewManager(30*time.Second, []Rule{{Pattern: "x", Timeout: 0}}); err == nil {
		t.Error("expected error for zero rule timeout")
	}
}
