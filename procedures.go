package sawmcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ListProcedures lists stored procedures and functions owned by authorized
// owners, optionally filtered by a single owner or by a case-insensitive
// name substring.
func (s *SQLAnywhereMcp) ListProcedures(ctx context.Context, input ListProceduresInput) (*ListProceduresOutput, error) {
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

	where := []string{fmt.Sprintf("u.user_name IN (%s)", s.owners.Placeholders())}
	args := s.owners.Args()
	if input.Owner != "" {
		where = append(where, "u.user_name = ?")
		args = append(args, input.Owner)
	}
	if input.Search != "" {
		where = append(where, "LOWER(p.proc_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(input.Search)+"%")
	}

	query := fmt.Sprintf(`
SELECT TOP %d p.proc_name, u.user_name
FROM SYS.SYSPROCEDURE p
JOIN SYS.SYSUSER u ON p.creator = u.user_id
WHERE %s
ORDER BY p.proc_name`, limit+1, strings.Join(where, "\n  AND "))

	rows, err := s.db.QueryContext(queryCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list procedures query failed: %w", err)
	}
	defer rows.Close()

	procedures := make([]ProcedureEntry, 0)
	for rows.Next() {
		var entry ProcedureEntry
		if err := rows.Scan(&entry.Name, &entry.Owner); err != nil {
			return nil, fmt.Errorf("list procedures scan failed: %w", err)
		}
		procedures = append(procedures, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list procedures rows error: %w", err)
	}

	hasMore := len(procedures) > limit
	if hasMore {
		procedures = procedures[:limit]
	}

	s.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("procedure_count", len(procedures)).
		Msg("list procedures executed")

	return &ListProceduresOutput{Procedures: procedures, TotalCount: len(procedures), HasMore: hasMore}, nil
}

// ProcedureDetails returns the parameter list of a single authorized stored
// procedure or function.
func (s *SQLAnywhereMcp) ProcedureDetails(ctx context.Context, input ProcedureDetailsInput) (*ProcedureDetailsOutput, error) {
	name := objectName(input.ProcedureName)
	if name == "" {
		return nil, fmt.Errorf("procedure name cannot be empty")
	}

	if err := s.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer s.releaseSlot()

	queryCtx, cancel := s.catalogCtx(ctx)
	defer cancel()

	out := &ProcedureDetailsOutput{}
	query := fmt.Sprintf(`
SELECT p.proc_name, u.user_name
FROM SYS.SYSPROCEDURE p
JOIN SYS.SYSUSER u ON p.creator = u.user_id
WHERE p.proc_name = ?
  AND u.user_name IN (%s)`, s.owners.Placeholders())
	args := append([]interface{}{name}, s.owners.Args()...)
	err := s.catalogRow(queryCtx, query, args...).Scan(&out.Name, &out.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("procedure", input.ProcedureName)
	}
	if err != nil {
		return nil, fmt.Errorf("procedure details query failed: %w", err)
	}

	// parm_type = 0 filters to declared parameters, excluding results.
	paramQuery := fmt.Sprintf(`
SELECT pp.parm_name, d.domain_name, pp.parm_mode_in, pp.parm_mode_out
FROM SYS.SYSPROCPARM pp
JOIN SYS.SYSDOMAIN d ON pp.domain_id = d.domain_id
JOIN SYS.SYSPROCEDURE p ON pp.proc_id = p.proc_id
JOIN SYS.SYSUSER u ON p.creator = u.user_id
WHERE p.proc_name = ?
  AND u.user_name IN (%s)
  AND pp.parm_type = 0
ORDER BY pp.parm_id`, s.owners.Placeholders())

	rows, err := s.db.QueryContext(queryCtx, paramQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("procedure parameters query failed: %w", err)
	}
	defer rows.Close()

	out.Parameters = make([]ProcedureParameter, 0)
	for rows.Next() {
		var param ProcedureParameter
		var modeIn, modeOut string
		if err := rows.Scan(&param.Name, &param.Type, &modeIn, &modeOut); err != nil {
			return nil, fmt.Errorf("procedure parameters scan failed: %w", err)
		}
		param.Mode = parameterMode(modeIn, modeOut)
		out.Parameters = append(out.Parameters, param)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("procedure parameters rows error: %w", err)
	}

	return out, nil
}

func parameterMode(modeIn, modeOut string) string {
	switch {
	case modeIn == "Y" && modeOut == "Y":
		return "INOUT"
	case modeOut == "Y":
		return "OUT"
	default:
		return "IN"
	}
}
