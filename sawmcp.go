package sawmcp

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/alexbrainman/odbc" // registers the "odbc" database/sql driver
	"github.com/rs/zerolog"

	"github.com/sawmcp/sqlanywhere-mcp/internal/authz"
	"github.com/sawmcp/sqlanywhere-mcp/internal/errprompt"
	"github.com/sawmcp/sqlanywhere-mcp/internal/redact"
	"github.com/sawmcp/sqlanywhere-mcp/internal/rowlimit"
	"github.com/sawmcp/sqlanywhere-mcp/internal/timeout"
)

// SQLAnywhereMcp is the core engine behind every tool: schema discovery,
// the restricted SELECT-only query surface, and the validation pipeline in
// front of it. All exported methods are safe for concurrent use from
// multiple goroutines; the validation components are pure and the only
// mutable state is the database handle.
type SQLAnywhereMcp struct {
	config    Config
	db        *sql.DB
	owners    *authz.OwnerSet
	limits    *rowlimit.Policy
	semaphore chan struct{}
	redactor  *redact.Redactor
	prompts   *errprompt.Matcher
	timeouts  *timeout.Manager
	logger    zerolog.Logger
}

// New creates a new SQLAnywhereMcp instance. connString is the ODBC
// connection string (see ConnectionConfig.Resolve). Panics on invalid
// config; returns an error only for runtime failures.
func New(ctx context.Context, connString string, config Config, logger zerolog.Logger) (*SQLAnywhereMcp, error) {
	if connString == "" {
		panic("sawmcp: connString must be non-empty")
	}
	db, err := sql.Open("odbc", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %w", err)
	}
	return NewWithDB(db, config, logger), nil
}

// NewWithDB creates a SQLAnywhereMcp on an existing database handle. The
// handle's max open connections is set to the configured concurrency cap.
// Panics on invalid config.
func NewWithDB(db *sql.DB, config Config, logger zerolog.Logger) *SQLAnywhereMcp {
	config.Query.applyDefaults()
	if config.Query.DefaultRowLimit < 0 || config.Query.MaxRowLimit < 0 {
		panic("sawmcp: row limits must be > 0")
	}
	if config.Query.DefaultTimeoutSeconds < 0 || config.Query.CatalogTimeoutSeconds < 0 {
		panic("sawmcp: timeouts must be > 0")
	}
	if config.Query.MaxSQLLength < 0 {
		panic("sawmcp: query.max_sql_length must be > 0")
	}
	if config.Query.MaxConcurrentQueries < 0 {
		panic("sawmcp: query.max_concurrent_queries must be > 0")
	}

	limits, err := rowlimit.NewPolicy(config.Query.DefaultRowLimit, config.Query.MaxRowLimit)
	if err != nil {
		panic("sawmcp: " + err.Error())
	}

	timeoutRules := make([]timeout.Rule, len(config.Query.TimeoutRules))
	for i, r := range config.Query.TimeoutRules {
		timeoutRules[i] = timeout.Rule{
			Pattern: r.Pattern,
			Timeout: time.Duration(r.TimeoutSeconds) * time.Second,
		}
	}
	timeouts, err := timeout.NewManager(time.Duration(config.Query.DefaultTimeoutSeconds)*time.Second, timeoutRules)
	if err != nil {
		panic("sawmcp: " + err.Error())
	}

	promptRules := make([]errprompt.Rule, len(config.ErrorPrompts))
	for i, r := range config.ErrorPrompts {
		promptRules[i] = errprompt.Rule{Pattern: r.Pattern, Suggestion: r.Suggestion}
	}
	prompts, err := errprompt.NewMatcher(promptRules)
	if err != nil {
		panic("sawmcp: " + err.Error())
	}

	redactRules := make([]redact.Rule, len(config.Redaction))
	for i, r := range config.Redaction {
		redactRules[i] = redact.Rule{Pattern: r.Pattern, Replacement: r.Replacement}
	}
	redactor, err := redact.New(redactRules)
	if err != nil {
		panic("sawmcp: " + err.Error())
	}

	db.SetMaxOpenConns(config.Query.MaxConcurrentQueries)

	return &SQLAnywhereMcp{
		config:    config,
		db:        db,
		owners:    authz.NewOwnerSet(config.Security.AuthorizedOwners),
		limits:    limits,
		semaphore: make(chan struct{}, config.Query.MaxConcurrentQueries),
		redactor:  redactor,
		prompts:   prompts,
		timeouts:  timeouts,
		logger:    logger,
	}
}

// Ping verifies database connectivity.
func (s *SQLAnywhereMcp) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.config.Query.CatalogTimeoutSeconds)*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to SQL Anywhere database: %w (verify the ODBC driver is installed, the server is running, and the connection parameters are correct)", err)
	}
	return nil
}

// AuthorizedOwners returns the configured owner allowlist in order.
func (s *SQLAnywhereMcp) AuthorizedOwners() []string {
	return s.owners.Names()
}

// Close closes the database handle.
func (s *SQLAnywhereMcp) Close() error {
	return s.db.Close()
}

// acquireSlot takes a query slot, respecting context cancellation.
func (s *SQLAnywhereMcp) acquireSlot(ctx context.Context) error {
	select {
	case s.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to acquire query slot: all %d slots are in use, context cancelled while waiting: %w", cap(s.semaphore), ctx.Err())
	}
}

func (s *SQLAnywhereMcp) releaseSlot() {
	<-s.semaphore
}
