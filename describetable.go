package sawmcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TableDetails returns columns, primary keys, foreign keys, and indexes for
// a single authorized table. The table name accepts both "Part" and
// "monitor.Part" spellings.
func (s *SQLAnywhereMcp) TableDetails(ctx context.Context, input TableDetailsInput) (*TableDetailsOutput, error) {
	startTime := time.Now()
	name := objectName(input.TableName)
	if name == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	if err := s.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer s.releaseSlot()

	queryCtx, cancel := s.catalogCtx(ctx)
	defer cancel()

	ownerFilter := s.owners.Placeholders()

	out := &TableDetailsOutput{}
	var count sql.NullInt64
	infoQuery := fmt.Sprintf(`
SELECT t.table_name, u.user_name, t.table_type_str, t.count
FROM SYS.SYSTAB t
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE t.table_name = ?
  AND u.user_name IN (%s)`, ownerFilter)
	args := append([]interface{}{name}, s.owners.Args()...)
	err := s.catalogRow(queryCtx, infoQuery, args...).Scan(&out.Name, &out.Owner, &out.Type, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("table", input.TableName)
	}
	if err != nil {
		return nil, fmt.Errorf("table details query failed: %w", err)
	}
	out.RowCount = count.Int64

	if out.Columns, err = s.tableColumns(queryCtx, name, ""); err != nil {
		return nil, err
	}
	if out.PrimaryKeys, err = s.primaryKeys(queryCtx, name); err != nil {
		return nil, err
	}
	if out.ForeignKeys, err = s.foreignKeys(queryCtx, name); err != nil {
		return nil, err
	}
	if out.Indexes, err = s.tableIndexes(queryCtx, name); err != nil {
		return nil, err
	}

	s.logger.Info().
		Dur("duration", time.Since(startTime)).
		Str("table", out.Owner+"."+out.Name).
		Msg("table details executed")

	return out, nil
}

// tableColumns fetches the column list for a table or view. typeFilter
// restricts the object kind ("" for any, "VIEW" for views only).
func (s *SQLAnywhereMcp) tableColumns(ctx context.Context, name, typeFilter string) ([]ColumnInfo, error) {
	extra := ""
	if typeFilter != "" {
		extra = fmt.Sprintf("\n  AND t.table_type_str = '%s'", typeFilter)
	}
	query := fmt.Sprintf(`
SELECT sc.column_name, d.domain_name, sc.width, sc.scale, sc.nulls, sc."default"
FROM SYS.SYSTABCOL sc
JOIN SYS.SYSDOMAIN d ON sc.domain_id = d.domain_id
JOIN SYS.SYSTAB t ON sc.table_id = t.table_id
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE t.table_name = ?
  AND u.user_name IN (%s)%s
ORDER BY sc.column_id`, s.owners.Placeholders(), extra)

	args := append([]interface{}{name}, s.owners.Args()...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("column query failed: %w", err)
	}
	defer rows.Close()

	columns := make([]ColumnInfo, 0)
	for rows.Next() {
		var col ColumnInfo
		var width, scale sql.NullInt64
		var nulls string
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.Type, &width, &scale, &nulls, &def); err != nil {
			return nil, fmt.Errorf("column scan failed: %w", err)
		}
		col.Length = width.Int64
		col.Scale = scale.Int64
		col.Nullable = nulls == "Y"
		col.Default = def.String
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// primaryKeys fetches primary key constraints (SYSIDX index_category = 1),
// grouping columns by constraint name in sequence order.
func (s *SQLAnywhereMcp) primaryKeys(ctx context.Context, name string) ([]PrimaryKeyInfo, error) {
	query := fmt.Sprintf(`
SELECT i.index_name, stc.column_name
FROM SYS.SYSIDX i
JOIN SYS.SYSIDXCOL ic ON i.index_id = ic.index_id AND i.table_id = ic.table_id
JOIN SYS.SYSTABCOL stc ON ic.table_id = stc.table_id AND ic.column_id = stc.column_id
JOIN SYS.SYSTAB t ON i.table_id = t.table_id
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE t.table_name = ?
  AND i.index_category = 1
  AND u.user_name IN (%s)
ORDER BY i.index_name, ic.sequence`, s.owners.Placeholders())

	args := append([]interface{}{name}, s.owners.Args()...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("primary key query failed: %w", err)
	}
	defer rows.Close()

	pks := make([]PrimaryKeyInfo, 0)
	for rows.Next() {
		var pkName, colName string
		if err := rows.Scan(&pkName, &colName); err != nil {
			return nil, fmt.Errorf("primary key scan failed: %w", err)
		}
		if n := len(pks); n > 0 && pks[n-1].Name == pkName {
			pks[n-1].Columns = append(pks[n-1].Columns, colName)
		} else {
			pks = append(pks, PrimaryKeyInfo{Name: pkName, Columns: []string{colName}})
		}
	}
	return pks, rows.Err()
}

// foreignKeys fetches foreign key constraints via SYSFKEY.
func (s *SQLAnywhereMcp) foreignKeys(ctx context.Context, name string) ([]ForeignKeyInfo, error) {
	query := fmt.Sprintf(`
SELECT fi.index_name, pt.table_name, pi.index_name
FROM SYS.SYSFKEY fk
JOIN SYS.SYSTAB ft ON fk.foreign_table_id = ft.table_id
JOIN SYS.SYSTAB pt ON fk.primary_table_id = pt.table_id
JOIN SYS.SYSIDX fi ON fk.foreign_index_id = fi.index_id AND fk.foreign_table_id = fi.table_id
JOIN SYS.SYSIDX pi ON fk.primary_index_id = pi.index_id AND fk.primary_table_id = pi.table_id
JOIN SYS.SYSUSER u ON ft.creator = u.user_id
WHERE ft.table_name = ?
  AND u.user_name IN (%s)
ORDER BY fi.index_name`, s.owners.Placeholders())

	args := append([]interface{}{name}, s.owners.Args()...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("foreign key query failed: %w", err)
	}
	defer rows.Close()

	fks := make([]ForeignKeyInfo, 0)
	for rows.Next() {
		var fk ForeignKeyInfo
		if err := rows.Scan(&fk.Name, &fk.ReferencedTable, &fk.ReferencedKey); err != nil {
			return nil, fmt.Errorf("foreign key scan failed: %w", err)
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// tableIndexes fetches index metadata with per-column sort order.
func (s *SQLAnywhereMcp) tableIndexes(ctx context.Context, name string) ([]IndexInfo, error) {
	query := fmt.Sprintf(`
SELECT i.index_name, i."unique", stc.column_name, ic."order"
FROM SYS.SYSIDX i
JOIN SYS.SYSIDXCOL ic ON i.index_id = ic.index_id AND i.table_id = ic.table_id
JOIN SYS.SYSTABCOL stc ON ic.table_id = stc.table_id AND ic.column_id = stc.column_id
JOIN SYS.SYSTAB t ON i.table_id = t.table_id
JOIN SYS.SYSUSER u ON t.creator = u.user_id
WHERE t.table_name = ?
  AND u.user_name IN (%s)
ORDER BY i.index_name, ic.sequence`, s.owners.Placeholders())

	args := append([]interface{}{name}, s.owners.Args()...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("index query failed: %w", err)
	}
	defer rows.Close()

	indexes := make([]IndexInfo, 0)
	for rows.Next() {
		var idxName, unique, colName, order string
		if err := rows.Scan(&idxName, &unique, &colName, &order); err != nil {
			return nil, fmt.Errorf("index scan failed: %w", err)
		}
		col := IndexColumn{Name: colName, Order: sortOrder(order)}
		if n := len(indexes); n > 0 && indexes[n-1].Name == idxName {
			indexes[n-1].Columns = append(indexes[n-1].Columns, col)
		} else {
			indexes = append(indexes, IndexInfo{
				Name:     idxName,
				Table:    name,
				IsUnique: unique == "Y",
				Columns:  []IndexColumn{col},
			})
		}
	}
	return indexes, rows.Err()
}

// sortOrder maps the catalog's single-letter order flag to ASC/DESC.
func sortOrder(flag string) string {
	if flag == "A" {
		return "ASC"
	}
	return "DESC"
}
