package sawmcp

import (
	"context"
	"database/sql"
	"time"
)

// executeWithProbe runs sqlText and collects up to probeCount rows. The
// caller is expected to have fully validated sqlText; this layer does no
// checking of its own and hands results back unmodified aside from the
// truncation trim, which the caller applies.
func (s *SQLAnywhereMcp) executeWithProbe(ctx context.Context, sqlText string, probeCount int) ([]map[string]interface{}, []string, float64, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, nil, 0, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, 0, err
	}

	result := make([]map[string]interface{}, 0)
	values := make([]interface{}, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for len(result) < probeCount && rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, nil, 0, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = convertValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, 0, err
	}

	return result, columns, time.Since(start).Seconds(), nil
}

// queryRow runs a single-row catalog query with the catalog timeout.
// Returns sql.ErrNoRows through dest scanning like database/sql does.
func (s *SQLAnywhereMcp) catalogRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// convertValue converts a driver-returned value to a JSON-friendly Go type.
// ODBC result cells are flat; the driver hands back []byte for character and
// binary data, time.Time for temporal types, and Go numerics otherwise.
func convertValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return val
	}
}
