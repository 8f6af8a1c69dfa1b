package sawmcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ListIndexes lists indexes on tables owned by authorized owners,
// optionally filtered by table name.
func (s *SQLAnywhereMcp) ListIndexes(ctx context.Context, input ListIndexesInput) (*ListIndexesOutput, error) {
	startTime := time.Now()

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

	where := []string{fmt.Sprintf("u.user_name IN (%s)", s.owners.Placeholders())}
	args := s.owners.Args()
	if input.TableName != "" {
		where = append(where, "t.table_name = ?")
		args = append(args, objectName(input.TableName))
	}

	query := fmt.Sprintf(`
SELECT TOP %d i.index_name, t.table_name, i."unique", u.user_name
FROM SYS.SYSIDX i
JOIN SYS.SYSTAB t ON i.table_id = t.table_id
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE %s
ORDER BY t.table_name, i.index_name`, limit+1, strings.Join(where, "\n  AND "))

	rows, err := s.db.QueryContext(queryCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list indexes query failed: %w", err)
	}
	defer rows.Close()

	indexes := make([]IndexInfo, 0)
	for rows.Next() {
		var idx IndexInfo
		var unique string
		if err := rows.Scan(&idx.Name, &idx.Table, &unique, &idx.Owner); err != nil {
			return nil, fmt.Errorf("list indexes scan failed: %w", err)
		}
		idx.IsUnique = unique == "Y"
		indexes = append(indexes, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list indexes rows error: %w", err)
	}

	hasMore := len(indexes) > limit
	if hasMore {
		indexes = indexes[:limit]
	}

	s.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("index_count", len(indexes)).
		Msg("list indexes executed")

	return &ListIndexesOutput{Indexes: indexes, TotalCount: len(indexes), HasMore: hasMore}, nil
}

// IndexDetails returns metadata and the ordered column list for a single
// index on an authorized table.
func (s *SQLAnywhereMcp) IndexDetails(ctx context.Context, input IndexDetailsInput) (*IndexDetailsOutput, error) {
	if input.IndexName == "" {
		return nil, fmt.Errorf("index name cannot be empty")
	}

	if err := s.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer s.releaseSlot()

	queryCtx, cancel := s.catalogCtx(ctx)
	defer cancel()

	out := &IndexDetailsOutput{}
	var unique string
	query := fmt.Sprintf(`
SELECT i.index_name, i."unique", t.table_name, u.user_name
FROM SYS.SYSIDX i
JOIN SYS.SYSTAB t ON i.table_id = t.table_id
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE i.index_name = ?
  AND u.user_name IN (%s)`, s.owners.Placeholders())
	args := append([]interface{}{input.IndexName}, s.owners.Args()...)
	err := s.catalogRow(queryCtx, query, args...).Scan(&out.Name, &unique, &out.Table, &out.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("index", input.IndexName)
	}
	if err != nil {
		return nil, fmt.Errorf("index details query failed: %w", err)
	}
	out.IsUnique = unique == "Y"

	colQuery := fmt.Sprintf(`
SELECT stc.column_name, ic."order"
FROM SYS.SYSIDXCOL ic
JOIN SYS.SYSIDX i ON ic.table_id = i.table_id AND ic.index_id = i.index_id
JOIN SYS.SYSTABCOL stc ON ic.table_id = stc.table_id AND ic.column_id = stc.column_id
JOIN SYS.SYSTAB t ON i.table_id = t.table_id
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE i.index_name = ?
  AND u.user_name IN (%s)
ORDER BY ic.sequence`, s.owners.Placeholders())

	rows, err := s.db.QueryContext(queryCtx, colQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("index columns query failed: %w", err)
	}
	defer rows.Close()

	out.Columns = make([]IndexColumn, 0)
	for rows.Next() {
		var colName, order string
		if err := rows.Scan(&colName, &order); err != nil {
			return nil, fmt.Errorf("index columns scan failed: %w", err)
		}
		out.Columns = append(out.Columns, IndexColumn{Name: colName, Order: sortOrder(order)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("index columns rows error: %w", err)
	}

	return out, nil
}
