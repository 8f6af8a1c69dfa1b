package guard

import (
	"strings"
	"testing"

	"github.com/sawmcp/sqlanywhere-mcp/internal/reject"
)

func TestClassifyAcceptsSelect(t *testing.T) {
	t.Parallel()
	queries := []string{
		"SELECT * FROM monitor.Part",
		"select id, name from monitor.Part",
		"  \n\tSELECT TOP 10 * FROM monitor.Part",
		"Select 1",
	}
	for _, q := range queries {
		if err := Classify(q); err != nil {
			t.Errorf("Classify(%q) = %v, want nil", q, err)
		}
	}
}

func TestClassifyRejectsNonSelect(t *testing.T) {
	t.Parallel()
	queries := []string{
		"",
		"   ",
		"SHOW TABLES",
		"WITH x AS (SELECT 1) SELECT * FROM x",
		"EXPLAIN SELECT 1",
		"' OR 1=1",
	}
	for _, q := range queries {
		err := Classify(q)
		if err == nil {
			t.Errorf("Classify(%q) = nil, want rejection", q)
			continue
		}
		if got := reject.ReasonOf(err); got != reject.NotASelect {
			t.Errorf("Classify(%q) reason = %s, want %s", q, got, reject.NotASelect)
		}
	}
}

func TestClassifyRejectsDangerousKeywords(t *testing.T) {
	t.Parallel()
	queries := map[string]string{
		"SELECT * FROM monitor.Part; DROP TABLE monitor.Part": "DROP",
		"SELECT * FROM monitor.Part WHERE delete = 1":         "DELETE",
		"SELECT * FROM monitor.Part; insert into x values(1)": "INSERT",
		"SELECT * FROM monitor.Part; UPDATE x SET y=1":        "UPDATE",
		"SELECT * FROM monitor.Part; TRUNCATE TABLE x":        "TRUNCATE",
		"SELECT * FROM monitor.Part; EXEC sp_whatever":        "EXEC",
		"SELECT * FROM monitor.Part; execute sp_whatever":     "EXEC",
	}
	for q, keyword := range queries {
		err := Classify(q)
		if err == nil {
			t.Errorf("Classify(%q) = nil, want rejection", q)
			continue
		}
		if got := reject.ReasonOf(err); got != reject.DangerousKeyword {
			t.Errorf("Classify(%q) reason = %s, want %s", q, got, reject.DangerousKeyword)
		}
		if !strings.Contains(err.Error(), keyword) {
			t.Errorf("Classify(%q) error %q does not name keyword %s", q, err, keyword)
		}
	}
}

func TestClassifyKeywordWordBoundary(t *testing.T) {
	t.Parallel()
	// Substrings of blocked keywords inside longer identifiers must pass.
	queries := []string{
		"SELECT dropped_at FROM monitor.Part",
		"SELECT * FROM monitor.UpdateLog",
		"SELECT inserted, updated FROM monitor.Audit",
		"SELECT executor FROM monitor.Job",
	}
	for _, q := range queries {
		if err := Classify(q); err != nil {
			t.Errorf("Classify(%q) = %v, want nil", q, err)
		}
	}
}

func TestClassifyKeywordInStringLiteralStillRejects(t *testing.T) {
	t.Parallel()
	// Conservative by design: no literal-awareness.
	err := Classify("SELECT * FROM monitor.Part WHERE note = 'DROP it'")
	if reject.ReasonOf(err) != reject.DangerousKeyword {
		t.Fatalf("expected DANGEROUS_KEYWORD for keyword inside literal, got %v", err)
	}
}

func TestValidateOnlyRequiresFrom(t *testing.T) {
	t.Parallel()
	err := ValidateOnly("SELECT 1")
	if reject.ReasonOf(err) != reject.MissingFrom {
		t.Fatalf("expected MISSING_FROM, got %v", err)
	}

	if err := ValidateOnly("SELECT * FROM monitor.Part"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateOnlyClassifiesFirst(t *testing.T) {
	t.Parallel()
	err := ValidateOnly("DROP TABLE monitor.Part")
	if reject.ReasonOf(err) != reject.NotASelect {
		t.Fatalf("expected NOT_A_SELECT before FROM check, got %v", err)
	}
}
