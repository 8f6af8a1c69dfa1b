package sawmcp_test

import (
	"sync"
	"testing"
	"time"

	"github.com/sawmcp/sqlanywhere-mcp/internal/authz"
	"github.com/sawmcp/sqlanywhere-mcp/internal/errprompt"
	"github.com/sawmcp/sqlanywhere-mcp/internal/guard"
	"github.com/sawmcp/sqlanywhere-mcp/internal/redact"
	"github.com/sawmcp/sqlanywhere-mcp/internal/timeout"
)

func TestRace_ConcurrentClassification(t *testing.T) {
	queries := []string{
		"SELECT * FROM monitor.Part",
		"INSERT INTO monitor.Part (name) VALUES ('test')",
		"UPDATE monitor.Part SET name = 'test' WHERE id = 1",
		"DELETE FROM monitor.Part WHERE id = 1",
		"DROP TABLE monitor.Part",
		"SELECT TOP 10 * FROM monitor.Part WHERE name = 'test'",
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = guard.Classify(queries[(id+j)%len(queries)])
			}
		}(i)
	}
	wg.Wait()
}

func TestRace_ConcurrentAuthorization(t *testing.T) {
	owners := authz.NewOwnerSet([]string{"monitor", "ExtensionsUser"})

	queries := []string{
		"SELECT * FROM monitor.Part",
		"SELECT * FROM dbo.Secrets",
		"SELECT * FROM monitor.Part JOIN ExtensionsUser.Config ON 1=1",
		"SELECT 1",
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = owners.Authorize(queries[(id+j)%len(queries)])
				_ = owners.Names()
			}
		}(i)
	}
	wg.Wait()
}

func TestRace_ConcurrentRedaction(t *testing.T) {
	r, err := redact.New([]redact.Rule{
		{Pattern: `\d{3}-\d{4}`, Replacement: "***-****"},
		{Pattern: `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`, Replacement: "[REDACTED]"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// Each iteration gets a fresh copy since Rows mutates in place.
				rows := []map[string]interface{}{
					{"phone": "555-1234", "email": "test@example.com", "name": "Alice"},
					{"phone": "555-5678", "email": "bob@test.org", "name": "Bob"},
				}
				r.Rows(rows)
			}
		}()
	}
	wg.Wait()
}

func TestRace_ConcurrentTimeoutAndPromptLookups(t *testing.T) {
	m, err := timeout.NewManager(30*time.Second, []timeout.Rule{
		{Pattern: "SYSTAB", Timeout: 5 * time.Second},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := errprompt.NewMatcher(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = m.Resolve("SELECT * FROM SYS.SYSTAB")
				_ = p.Annotate("UNAUTHORIZED_OWNER: nope")
			}
		}()
	}
	wg.Wait()
}
