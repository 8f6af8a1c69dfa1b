package sawmcp

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
)

// newTestMcp builds an engine on a sqlmock handle. The returned mock is
// checked for unmet expectations at cleanup.
func newTestMcp(t *testing.T, config Config) (*SQLAnywhereMcp, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	s := NewWithDB(db, config, zerolog.Nop())
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		s.Close()
	})
	return s, mock
}

func TestNewWithDBPanicsOnInvalidConfig(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for default limit above ceiling")
		}
	}()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	NewWithDB(db, Config{
		Query: QueryConfig{DefaultRowLimit: 500, MaxRowLimit: 100},
	}, zerolog.Nop())
}

func TestAuthorizedOwnersDefaults(t *testing.T) {
	t.Parallel()
	s, _ := newTestMcp(t, Config{})
	got := s.AuthorizedOwners()
	if len(got) != 2 || got[0] != "monitor" || got[1] != "ExtensionsUser" {
		t.Errorf("unexpected default owners: %v", got)
	}
}

func TestAuthorizedOwnersConfigured(t *testing.T) {
	t.Parallel()
	s, _ := newTestMcp(t, Config{
		Security: SecurityConfig{AuthorizedOwners: []string{"app", "dbo"}},
	})
	got := s.AuthorizedOwners()
	if len(got) != 2 || got[0] != "app" || got[1] != "dbo" {
		t.Errorf("unexpected owners: %v", got)
	}
}
