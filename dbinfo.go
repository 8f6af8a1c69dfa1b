package sawmcp

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// DatabaseInfo returns database properties and the counts of objects owned
// by authorized owners.
func (s *SQLAnywhereMcp) DatabaseInfo(ctx context.Context) (*DatabaseInfoOutput, error) {
	if err := s.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer s.releaseSlot()

	queryCtx, cancel := s.catalogCtx(ctx)
	defer cancel()

	out := &DatabaseInfoOutput{}

	var charset, collation, pageSize sql.NullString
	err := s.catalogRow(queryCtx,
		`SELECT PROPERTY('Name'), PROPERTY('ProductVersion'), PROPERTY('Charset'), PROPERTY('Collation'), PROPERTY('PageSize')`,
	).Scan(&out.DatabaseName, &out.Version, &charset, &collation, &pageSize)
	if err != nil {
		return nil, fmt.Errorf("database properties query failed: %w", err)
	}
	out.Charset = charset.String
	out.Collation = collation.String
	if pageSize.Valid {
		// PROPERTY returns strings; a non-numeric page size is left at zero.
		out.PageSize, _ = strconv.ParseInt(pageSize.String, 10, 64)
	}

	ownerFilter := s.owners.Placeholders()
	args := s.owners.Args()

	tableCountQuery := fmt.Sprintf(`
SELECT COUNT(*)
FROM SYS.SYSTAB t
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE t.table_type_str = 'BASE'
  AND u.user_name IN (%s)`, ownerFilter)
	if err := s.catalogRow(queryCtx, tableCountQuery, args...).Scan(&out.TableCount); err != nil {
		return nil, fmt.Errorf("table count query failed: %w", err)
	}

	viewCountQuery := fmt.Sprintf(`
SELECT COUNT(*)
FROM SYS.SYSTAB t
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE t.table_type_str = 'VIEW'
  AND u.user_name IN (%s)`, ownerFilter)
	if err := s.catalogRow(queryCtx, viewCountQuery, args...).Scan(&out.ViewCount); err != nil {
		return nil, fmt.Errorf("view count query failed: %w", err)
	}

	procCountQuery := fmt.Sprintf(`
SELECT COUNT(*)
FROM SYS.SYSPROCEDURE p
JOIN SYS.SYSUSER u ON p.creator = u.user_id
WHERE u.user_name IN (%s)`, ownerFilter)
	if err := s.catalogRow(queryCtx, procCountQuery, args...).Scan(&out.ProcedureCount); err != nil {
		return nil, fmt.Errorf("procedure count query failed: %w", err)
	}

	return out, nil
}
