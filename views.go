package sawmcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ListViews lists views owned by authorized owners, optionally filtered by
// a single owner or by a case-insensitive name substring.
func (s *SQLAnywhereMcp) ListViews(ctx context.Context, input ListViewsInput) (*ListViewsOutput, error) {
	startTime := time.Now()

	if err := checkOwnerSearch(input.Owner, input.Search); err != nil {
		return nil, err
	}
	limit, err := s.resolveListLimit(input.Limit)
	if err != nil {
		return nil, err
	}
	if err := s.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer s.releaseSlot()

	queryCtx, cancel := s.catalogCtx(ctx)
	defer cancel()

	where := []string{
		"t.table_type_str = 'VIEW'",
		fmt.Sprintf("u.user_name IN (%s)", s.owners.Placeholders()),
	}
	args := s.owners.Args()
	if input.Owner != "" {
		where = append(where, "u.user_name = ?")
		args = append(args, input.Owner)
	}
	if input.Search != "" {
		where = append(where, "LOWER(t.table_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(input.Search)+"%")
	}

	query := fmt.Sprintf(`
SELECT TOP %d t.table_name, u.user_name
FROM SYS.SYSTAB t
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE %s
ORDER BY t.table_name`, limit+1, strings.Join(where, "\n  AND "))

	rows, err := s.db.QueryContext(queryCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list views query failed: %w", err)
	}
	defer rows.Close()

	views := make([]ViewEntry, 0)
	for rows.Next() {
		var entry ViewEntry
		if err := rows.Scan(&entry.Name, &entry.Owner); err != nil {
			return nil, fmt.Errorf("list views scan failed: %w", err)
		}
		views = append(views, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list views rows error: %w", err)
	}

	hasMore := len(views) > limit
	if hasMore {
		views = views[:limit]
	}

	s.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("view_count", len(views)).
		Msg("list views executed")

	return &ListViewsOutput{Views: views, TotalCount: len(views), HasMore: hasMore}, nil
}

// ViewDetails returns the column list of a single authorized view. The view
// name accepts both "CustomerView" and "monitor.CustomerView" spellings.
func (s *SQLAnywhereMcp) ViewDetails(ctx context.Context, input ViewDetailsInput) (*ViewDetailsOutput, error) {
	name := objectName(input.ViewName)
	if name == "" {
		return nil, fmt.Errorf("view name cannot be empty")
	}

	if err := s.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer s.releaseSlot()

	queryCtx, cancel := s.catalogCtx(ctx)
	defer cancel()

	out := &ViewDetailsOutput{}
	query := fmt.Sprintf(`
SELECT t.table_name, u.user_name
FROM SYS.SYSTAB t
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE t.table_name = ?
  AND t.table_type_str = 'VIEW'
  AND u.user_name IN (%s)`, s.owners.Placeholders())
	args := append([]interface{}{name}, s.owners.Args()...)
	err := s.catalogRow(queryCtx, query, args...).Scan(&out.Name, &out.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("view", input.ViewName)
	}
	if err != nil {
		return nil, fmt.Errorf("view details query failed: %w", err)
	}

	if out.Columns, err = s.tableColumns(queryCtx, name, "VIEW"); err != nil {
		return nil, err
	}
	return out, nil
}
