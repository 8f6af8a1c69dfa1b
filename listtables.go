package sawmcp

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ListTables lists base tables owned by authorized owners, optionally
// filtered by a single owner or by a case-insensitive name substring.
func (s *SQLAnywhereMcp) ListTables(ctx context.Context, input ListTablesInput) (*ListTablesOutput, error) {
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
		"t.table_type_str = 'BASE'",
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

	// One extra row probes for has_more without a second round-trip.
	query := fmt.Sprintf(`
SELECT TOP %d t.table_name, u.user_name, t.table_type_str, t.count
FROM SYS.SYSTAB t
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE %s
ORDER BY t.table_name`, limit+1, strings.Join(where, "\n  AND "))

	rows, err := s.db.QueryContext(queryCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables query failed: %w", err)
	}
	defer rows.Close()

	tables := make([]TableEntry, 0)
	for rows.Next() {
		var entry TableEntry
		var count sql.NullInt64
		if err := rows.Scan(&entry.Name, &entry.Owner, &entry.Type, &count); err != nil {
			return nil, fmt.Errorf("list tables scan failed: %w", err)
		}
		entry.RowCount = count.Int64
		tables = append(tables, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables rows error: %w", err)
	}

	hasMore := len(tables) > limit
	if hasMore {
		tables = tables[:limit]
	}

	s.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("table_count", len(tables)).
		Msg("list tables executed")

	return &ListTablesOutput{Tables: tables, TotalCount: len(tables), HasMore: hasMore}, nil
}
