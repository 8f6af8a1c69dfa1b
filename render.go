package sawmcp

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Renderer turns tool results into wire text. Two implementations exist:
// markdown for human-leaning agents and JSON for structured consumers. The
// same renderer is applied uniformly to every result type instead of
// branching on a format flag inside each operation.
type Renderer interface {
	QueryResult(*QueryOutput) (string, error)
	Validation(*ValidateQueryOutput) (string, error)
	Tables(*ListTablesOutput) (string, error)
	TableDetails(*TableDetailsOutput) (string, error)
	Views(*ListViewsOutput) (string, error)
	ViewDetails(*ViewDetailsOutput) (string, error)
	Procedures(*ListProceduresOutput) (string, error)
	ProcedureDetails(*ProcedureDetailsOutput) (string, error)
	Indexes(*ListIndexesOutput) (string, error)
	IndexDetails(*IndexDetailsOutput) (string, error)
	DatabaseInfo(*DatabaseInfoOutput) (string, error)
}

// RendererFor returns the renderer for a response_format value. Markdown is
// the default; anything unrecognized falls back to it.
func RendererFor(format string) Renderer {
	if strings.EqualFold(format, "json") {
		return jsonRenderer{}
	}
	return markdownRenderer{}
}

// --- JSON ---

type jsonRenderer struct{}

func marshal(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(b), nil
}

func (jsonRenderer) QueryResult(o *QueryOutput) (string, error)           { return marshal(o) }
func (jsonRenderer) Validation(o *ValidateQueryOutput) (string, error)    { return marshal(o) }
func (jsonRenderer) Tables(o *ListTablesOutput) (string, error)           { return marshal(o) }
func (jsonRenderer) TableDetails(o *TableDetailsOutput) (string, error)   { return marshal(o) }
func (jsonRenderer) Views(o *ListViewsOutput) (string, error)             { return marshal(o) }
func (jsonRenderer) ViewDetails(o *ViewDetailsOutput) (string, error)     { return marshal(o) }
func (jsonRenderer) Procedures(o *ListProceduresOutput) (string, error)   { return marshal(o) }
func (jsonRenderer) ProcedureDetails(o *ProcedureDetailsOutput) (string, error) { return marshal(o) }
func (jsonRenderer) Indexes(o *ListIndexesOutput) (string, error)         { return marshal(o) }
func (jsonRenderer) IndexDetails(o *IndexDetailsOutput) (string, error)   { return marshal(o) }
func (jsonRenderer) DatabaseInfo(o *DatabaseInfoOutput) (string, error)   { return marshal(o) }

// --- Markdown ---

type markdownRenderer struct{}

const maxCellWidth = 100

// cell stringifies a value for a markdown table cell: NULL for nil, long
// strings trimmed.
func cell(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	s := fmt.Sprintf("%v", v)
	if len(s) > maxCellWidth {
		truncateAt := maxCellWidth - 3
		for truncateAt > 0 && !utf8.RuneStart(s[truncateAt]) {
			truncateAt--
		}
		s = s[:truncateAt] + "..."
	}
	return s
}

func mdTable(sb *strings.Builder, headers []string, rows [][]string) {
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	sb.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}

func (markdownRenderer) QueryResult(o *QueryOutput) (string, error) {
	if o.Error != "" {
		return "## Error\n\n" + o.Error, nil
	}
	var sb strings.Builder
	sb.WriteString("## Query Results\n\n")
	if len(o.Rows) == 0 {
		fmt.Fprintf(&sb, "No rows returned.\n\n**Execution time**: %.3f seconds", o.ElapsedSeconds)
		return sb.String(), nil
	}
	fmt.Fprintf(&sb, "**Rows returned**: %d\n", o.RowCount)
	fmt.Fprintf(&sb, "**Execution time**: %.3f seconds\n", o.ElapsedSeconds)
	if o.Truncated {
		fmt.Fprintf(&sb, "**Note**: result set truncated at %d rows (more rows exist)\n", o.RowCount)
	}
	sb.WriteString("\n")

	rows := make([][]string, len(o.Rows))
	for i, row := range o.Rows {
		cells := make([]string, len(o.Columns))
		for j, col := range o.Columns {
			cells[j] = cell(row[col])
		}
		rows[i] = cells
	}
	mdTable(&sb, o.Columns, rows)
	return sb.String(), nil
}

func (markdownRenderer) Validation(o *ValidateQueryOutput) (string, error) {
	if o.Valid {
		return "**Valid**: " + o.Message, nil
	}
	return "**Invalid**: " + o.Message, nil
}

func (markdownRenderer) Tables(o *ListTablesOutput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Tables (%d found)\n\n", o.TotalCount)
	rows := make([][]string, len(o.Tables))
	for i, t := range o.Tables {
		rows[i] = []string{t.Name, t.Owner, t.Type, fmt.Sprintf("%d", t.RowCount)}
	}
	mdTable(&sb, []string{"Table Name", "Owner", "Type", "Row Count"}, rows)
	if o.HasMore {
		sb.WriteString("\nMore tables exist beyond this limit.\n")
	}
	return sb.String(), nil
}

func (markdownRenderer) TableDetails(o *TableDetailsOutput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Table: %s.%s\n", o.Owner, o.Name)
	fmt.Fprintf(&sb, "**Type**: %s\n", o.Type)
	fmt.Fprintf(&sb, "**Row Count**: %d\n\n", o.RowCount)

	fmt.Fprintf(&sb, "### Columns (%d)\n\n", len(o.Columns))
	colRows := make([][]string, len(o.Columns))
	for i, c := range o.Columns {
		nullable := "NO"
		if c.Nullable {
			nullable = "YES"
		}
		colRows[i] = []string{c.Name, c.Type, zeroBlank(c.Length), zeroBlank(c.Scale), nullable, c.Default}
	}
	mdTable(&sb, []string{"Column", "Type", "Length", "Scale", "Nullable", "Default"}, colRows)

	if len(o.PrimaryKeys) > 0 {
		sb.WriteString("\n### Primary Keys\n\n")
		for _, pk := range o.PrimaryKeys {
			fmt.Fprintf(&sb, "- **%s**: %s\n", pk.Name, strings.Join(pk.Columns, ", "))
		}
	}
	if len(o.ForeignKeys) > 0 {
		sb.WriteString("\n### Foreign Keys\n\n")
		for _, fk := range o.ForeignKeys {
			fmt.Fprintf(&sb, "- **%s**: references %s(%s)\n", fk.Name, fk.ReferencedTable, fk.ReferencedKey)
		}
	}
	if len(o.Indexes) > 0 {
		sb.WriteString("\n### Indexes\n\n")
		for _, idx := range o.Indexes {
			cols := make([]string, len(idx.Columns))
			for i, c := range idx.Columns {
				cols[i] = c.Name + " " + c.Order
			}
			uniquePrefix := ""
			if idx.IsUnique {
				uniquePrefix = "Unique "
			}
			fmt.Fprintf(&sb, "- **%s**: (%s%s)\n", idx.Name, uniquePrefix, strings.Join(cols, ", "))
		}
	}
	return sb.String(), nil
}

func (markdownRenderer) Views(o *ListViewsOutput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Views (%d found)\n\n", o.TotalCount)
	rows := make([][]string, len(o.Views))
	for i, v := range o.Views {
		rows[i] = []string{v.Name, v.Owner}
	}
	mdTable(&sb, []string{"View Name", "Owner"}, rows)
	if o.HasMore {
		sb.WriteString("\nMore views exist beyond this limit.\n")
	}
	return sb.String(), nil
}

func (markdownRenderer) ViewDetails(o *ViewDetailsOutput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## View: %s.%s\n\n", o.Owner, o.Name)
	fmt.Fprintf(&sb, "### Columns (%d)\n\n", len(o.Columns))
	rows := make([][]string, len(o.Columns))
	for i, c := range o.Columns {
		nullable := "NO"
		if c.Nullable {
			nullable = "YES"
		}
		rows[i] = []string{c.Name, c.Type, nullable}
	}
	mdTable(&sb, []string{"Column", "Type", "Nullable"}, rows)
	return sb.String(), nil
}

func (markdownRenderer) Procedures(o *ListProceduresOutput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Procedures & Functions (%d found)\n\n", o.TotalCount)
	rows := make([][]string, len(o.Procedures))
	for i, p := range o.Procedures {
		rows[i] = []string{p.Name, p.Owner}
	}
	mdTable(&sb, []string{"Name", "Owner"}, rows)
	if o.HasMore {
		sb.WriteString("\nMore procedures exist beyond this limit.\n")
	}
	return sb.String(), nil
}

func (markdownRenderer) ProcedureDetails(o *ProcedureDetailsOutput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Procedure: %s.%s\n\n", o.Owner, o.Name)
	sb.WriteString("### Parameters\n\n")
	if len(o.Parameters) == 0 {
		sb.WriteString("No parameters found\n")
		return sb.String(), nil
	}
	rows := make([][]string, len(o.Parameters))
	for i, p := range o.Parameters {
		rows[i] = []string{p.Name, p.Type, p.Mode}
	}
	mdTable(&sb, []string{"Name", "Type", "Mode"}, rows)
	return sb.String(), nil
}

func (markdownRenderer) Indexes(o *ListIndexesOutput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Indexes (%d found)\n\n", o.TotalCount)
	rows := make([][]string, len(o.Indexes))
	for i, idx := range o.Indexes {
		unique := "No"
		if idx.IsUnique {
			unique = "Yes"
		}
		rows[i] = []string{idx.Name, idx.Table, idx.Owner, unique}
	}
	mdTable(&sb, []string{"Index Name", "Table", "Owner", "Unique"}, rows)
	if o.HasMore {
		sb.WriteString("\nMore indexes exist beyond this limit.\n")
	}
	return sb.String(), nil
}

func (markdownRenderer) IndexDetails(o *IndexDetailsOutput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Index: %s\n", o.Name)
	fmt.Fprintf(&sb, "**Table**: %s.%s\n", o.Owner, o.Table)
	unique := "No"
	if o.IsUnique {
		unique = "Yes"
	}
	fmt.Fprintf(&sb, "**Unique**: %s\n\n", unique)
	sb.WriteString("### Columns\n\n")
	rows := make([][]string, len(o.Columns))
	for i, c := range o.Columns {
		rows[i] = []string{c.Name, c.Order, fmt.Sprintf("%d", i+1)}
	}
	mdTable(&sb, []string{"Column", "Order", "Sequence"}, rows)
	return sb.String(), nil
}

func (markdownRenderer) DatabaseInfo(o *DatabaseInfoOutput) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Database Information\n\n")
	fmt.Fprintf(&sb, "**Database Name**: %s\n", o.DatabaseName)
	fmt.Fprintf(&sb, "**SQL Anywhere Version**: %s\n\n", o.Version)
	sb.WriteString("### Database Properties\n\n")
	fmt.Fprintf(&sb, "**Character Set**: %s\n", o.Charset)
	fmt.Fprintf(&sb, "**Collation**: %s\n", o.Collation)
	fmt.Fprintf(&sb, "**Page Size**: %d bytes\n\n", o.PageSize)
	sb.WriteString("### Database Objects\n\n")
	fmt.Fprintf(&sb, "- **Tables** (authorized): %d\n", o.TableCount)
	fmt.Fprintf(&sb, "- **Views** (authorized): %d\n", o.ViewCount)
	fmt.Fprintf(&sb, "- **Procedures/Functions**: %d\n", o.ProcedureCount)
	return sb.String(), nil
}

func zeroBlank(n int64) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}
