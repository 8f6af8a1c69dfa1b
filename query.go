package sawmcp

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sawmcp/sqlanywhere-mcp/internal/guard"
	"github.com/sawmcp/sqlanywhere-mcp/internal/reject"
	"github.com/sawmcp/sqlanywhere-mcp/internal/rowlimit"
	"github.com/sawmcp/sqlanywhere-mcp/internal/sqlbuild"
)

// ExecuteQuery runs a raw SELECT query through the full pipeline:
// classification, owner authorization, row-limit resolution, then a single
// execution with a one-extra-row probe for truncation detection. All
// failures are reported in QueryOutput.Error; callers never see a Go error.
func (s *SQLAnywhereMcp) ExecuteQuery(ctx context.Context, input QueryInput) *QueryOutput {
	return s.runPipeline(ctx, input.Query, input.Limit)
}

// BuildAndExecute compiles a structured query specification into a SELECT
// statement and runs it through the same pipeline as a raw query. The
// builder's own validation is defense in depth, not a trust boundary: its
// output is still classified and authorized before execution.
func (s *SQLAnywhereMcp) BuildAndExecute(ctx context.Context, input BuildQueryInput) *QueryOutput {
	sqlText, err := sqlbuild.Build(sqlbuild.Spec{
		TableName: input.TableName,
		Columns:   input.Columns,
		Where:     input.Where,
		OrderBy:   input.OrderBy,
		Limit:     input.Limit,
	}, s.limits.Ceiling)
	if err != nil {
		return s.handleError(err)
	}
	return s.runPipeline(ctx, sqlText, input.Limit)
}

// ValidateQuery checks a query without executing it: classification plus a
// basic FROM-clause shape check. It performs no authorization and never
// touches the database.
func (s *SQLAnywhereMcp) ValidateQuery(input ValidateQueryInput) *ValidateQueryOutput {
	if err := guard.ValidateOnly(input.Query); err != nil {
		return &ValidateQueryOutput{
			Valid:   false,
			Reason:  string(reject.ReasonOf(err)),
			Message: err.Error(),
		}
	}
	return &ValidateQueryOutput{
		Valid:   true,
		Message: "query appears to be a safe SELECT query (basic validation passed)",
	}
}

// runPipeline is the shared classifier → authorizer → limit → execute path.
func (s *SQLAnywhereMcp) runPipeline(ctx context.Context, sqlText string, requestedLimit int) *QueryOutput {
	startTime := time.Now()

	if err := s.acquireSlot(ctx); err != nil {
		return s.handleError(err)
	}
	defer s.releaseSlot()

	if len(sqlText) > s.config.Query.MaxSQLLength {
		return s.handleError(fmt.Errorf("query too long: %d bytes exceeds maximum of %d bytes", len(sqlText), s.config.Query.MaxSQLLength))
	}

	if err := guard.Classify(sqlText); err != nil {
		return s.handleError(err)
	}
	if err := s.owners.Authorize(sqlText); err != nil {
		return s.handleError(err)
	}
	effectiveLimit, err := s.limits.Resolve(requestedLimit)
	if err != nil {
		return s.handleError(err)
	}

	execTimeout, timeoutRule := s.timeouts.Resolve(sqlText)
	queryCtx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	rows, columns, elapsed, err := s.executeWithProbe(queryCtx, sqlText, s.limits.ProbeCount(effectiveLimit))
	if err != nil {
		return s.handleError(fmt.Errorf("query execution failed: %w", err))
	}

	rows, truncated := rowlimit.Truncate(rows, effectiveLimit)
	rows = s.redactor.Rows(rows)

	logEvent := s.logger.Info().
		Str("sql", truncateForLog(sqlText, 200)).
		Dur("duration", time.Since(startTime)).
		Int("row_count", len(rows)).
		Bool("truncated", truncated)
	if timeoutRule != "" {
		logEvent = logEvent.Str("timeout_rule", timeoutRule)
	}
	if s.redactor.Active() {
		logEvent = logEvent.Bool("redacted", true)
	}
	logEvent.Msg("query executed")

	return &QueryOutput{
		Columns:        columns,
		Rows:           rows,
		RowCount:       len(rows),
		ElapsedSeconds: elapsed,
		Truncated:      truncated,
	}
}

// handleError converts any error into a QueryOutput with an error message,
// annotated with matching guidance suggestions.
func (s *SQLAnywhereMcp) handleError(err error) *QueryOutput {
	errMsg := err.Error()
	logEvent := s.logger.Error().Err(err)
	if reason := reject.ReasonOf(err); reason != "" {
		logEvent = logEvent.Str("reason", string(reason))
	}
	logEvent.Msg("query rejected")
	return &QueryOutput{Error: s.prompts.Annotate(errMsg)}
}

// truncateForLog trims a string for log output to avoid oversized entries.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	truncateAt := maxLen
	for truncateAt > 0 && !utf8.RuneStart(s[truncateAt]) {
		truncateAt--
	}
	return s[:truncateAt] + "...[truncated]"
}
