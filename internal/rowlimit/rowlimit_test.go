package rowlimit

import (
	"testing"

	"github.com/sawmcp/sqlanywhere-mcp/internal/reject"
)

func TestNewPolicyValidation(t *testing.T) {
	t.Parallel()
	if _, err := NewPolicy(0, 100); err == nil {
		t.Error("expected error for zero default")
	}
	if _, err := NewPolicy(-1, 100); err == nil {
		t.Error("expected error for negative default")
	}
	if _, err := NewPolicy(100, 50); err == nil {
		t.Error("expected error for ceiling below default")
	}
	if _, err := NewPolicy(100, 100); err != nil {
		t.Errorf("ceiling == default must be valid: %v", err)
	}
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()
	p, err := NewPolicy(1000, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := p.Resolve(0)
	if err != nil || got != 1000 {
		t.Errorf("Resolve(0) = (%d, %v), want (1000, nil)", got, err)
	}
	got, err = p.Resolve(50)
	if err != nil || got != 50 {
		t.Errorf("Resolve(50) = (%d, %v), want (50, nil)", got, err)
	}
	got, err = p.Resolve(10000)
	if err != nil || got != 10000 {
		t.Errorf("Resolve(ceiling) = (%d, %v), want (10000, nil)", got, err)
	}
}

func TestResolveRejectsAboveCeiling(t *testing.T) {
	t.Parallel()
	p, _ := NewPolicy(1000, 10000)
	_, err := p.Resolve(10001)
	if reject.ReasonOf(err) != reject.LimitExceedsCeiling {
		t.Fatalf("expected LIMIT_EXCEEDS_CEILING, got %v", err)
	}
}

func TestResolveRejectsNegative(t *testing.T) {
	t.Parallel()
	p, _ := NewPolicy(1000, 10000)
	_, err := p.Resolve(-5)
	if reject.ReasonOf(err) != reject.LimitExceedsCeiling {
		t.Fatalf("expected rejection for negative limit, got %v", err)
	}
}

func TestProbeCount(t *testing.T) {
	t.Parallel()
	p, _ := NewPolicy(1000, 10000)
	if got := p.ProbeCount(10); got != 11 {
		t.Errorf("ProbeCount(10) = %d, want 11", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	rows := []map[string]interface{}{
		{"id": 1}, {"id": 2}, {"id": 3},
	}

	got, truncated := Truncate(rows, 2)
	if !truncated || len(got) != 2 {
		t.Errorf("Truncate(3 rows, 2) = (%d rows, %v), want (2, true)", len(got), truncated)
	}

	got, truncated = Truncate(rows, 3)
	if truncated || len(got) != 3 {
		t.Errorf("Truncate(3 rows, 3) = (%d rows, %v), want (3, false)", len(got), truncated)
	}

	got, truncated = Truncate(nil, 5)
	if truncated || len(got) != 0 {
		t.Errorf("Truncate(nil, 5) = (%d rows, %v), want (0, false)", len(got), truncated)
	}
}
