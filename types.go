package sawmcp

// QueryInput is the input for the ExecuteQuery tool.
type QueryInput struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"` // 0 means use the configured default
}

// QueryOutput is the result of an executed query. All failures (validation
// rejections, driver errors) are placed in Error with any matching guidance
// suggestion appended; callers only need to check Error, never a Go error.
type QueryOutput struct {
	Columns        []string                 `json:"columns"`
	Rows           []map[string]interface{} `json:"rows"`
	RowCount       int                      `json:"row_count"`
	ElapsedSeconds float64                  `json:"execution_time_seconds"`
	Truncated      bool                     `json:"has_more"`
	Error          string                   `json:"error,omitempty"`
}

// BuildQueryInput is the structured input for the QueryBuilder tool. It is
// compiled into a SELECT statement that then goes through the same
// validation pipeline as a raw query.
type BuildQueryInput struct {
	TableName string `json:"table_name"` // owner.Table, owner prefix required
	Columns   string `json:"columns,omitempty"`
	Where     string `json:"where,omitempty"`
	OrderBy   string `json:"order_by,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// ValidateQueryInput is the input for the ValidateQuery tool.
type ValidateQueryInput struct {
	Query string `json:"query"`
}

// ValidateQueryOutput is the verdict of validate-only mode. The query is
// never executed.
type ValidateQueryOutput struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"` // rejection code when invalid
	Message string `json:"message"`
}

// ListTablesInput filters the table list. Owner and Search are mutually
// exclusive.
type ListTablesInput struct {
	Owner  string `json:"owner,omitempty"`
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// TableEntry is one table in the ListTables output.
type TableEntry struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Type     string `json:"table_type"`
	RowCount int64  `json:"row_count"`
}

// ListTablesOutput is the output of the ListTables tool.
type ListTablesOutput struct {
	Tables     []TableEntry `json:"tables"`
	TotalCount int          `json:"total_count"`
	HasMore    bool         `json:"has_more"`
}

// TableDetailsInput names the table to describe. Accepts both "Part" and
// "monitor.Part"; the owner prefix, when present, is only used for display
// since catalog lookups are already owner-filtered.
type TableDetailsInput struct {
	TableName string `json:"table_name"`
}

// ColumnInfo describes a single column of a table or view.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Length   int64  `json:"length,omitempty"`
	Scale    int64  `json:"scale,omitempty"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default_value,omitempty"`
}

// PrimaryKeyInfo describes a primary key constraint.
type PrimaryKeyInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"column_names"`
}

// ForeignKeyInfo describes a foreign key constraint.
type ForeignKeyInfo struct {
	Name            string `json:"name"`
	ReferencedTable string `json:"referenced_table"`
	ReferencedKey   string `json:"referenced_key"`
}

// IndexColumn is one column of an index with its sort order.
type IndexColumn struct {
	Name  string `json:"column_name"`
	Order string `json:"order"` // "ASC" or "DESC"
}

// IndexInfo describes a single index.
type IndexInfo struct {
	Name     string        `json:"name"`
	Table    string        `json:"table_name"`
	Owner    string        `json:"owner,omitempty"`
	IsUnique bool          `json:"is_unique"`
	Columns  []IndexColumn `json:"columns,omitempty"`
}

// TableDetailsOutput is the output of the TableDetails tool.
type TableDetailsOutput struct {
	Name        string           `json:"name"`
	Owner       string           `json:"owner"`
	Type        string           `json:"table_type"`
	RowCount    int64            `json:"row_count"`
	Columns     []ColumnInfo     `json:"columns"`
	PrimaryKeys []PrimaryKeyInfo `json:"primary_keys"`
	ForeignKeys []ForeignKeyInfo `json:"foreign_keys"`
	Indexes     []IndexInfo      `json:"indexes"`
}

// ListViewsInput filters the view list. Owner and Search are mutually
// exclusive.
type ListViewsInput struct {
	Owner  string `json:"owner,omitempty"`
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ViewEntry is one view in the ListViews output.
type ViewEntry struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// ListViewsOutput is the output of the ListViews tool.
type ListViewsOutput struct {
	Views      []ViewEntry `json:"views"`
	TotalCount int         `json:"total_count"`
	HasMore    bool        `json:"has_more"`
}

// ViewDetailsInput names the view to describe.
type ViewDetailsInput struct {
	ViewName string `json:"view_name"`
}

// ViewDetailsOutput is the output of the ViewDetails tool.
type ViewDetailsOutput struct {
	Name    string       `json:"name"`
	Owner   string       `json:"owner"`
	Columns []ColumnInfo `json:"columns"`
}

// ListProceduresInput filters the procedure list. Owner and Search are
// mutually exclusive.
type ListProceduresInput struct {
	Owner  string `json:"owner,omitempty"`
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ProcedureEntry is one procedure in the ListProcedures output.
type ProcedureEntry struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// ListProceduresOutput is the output of the ListProcedures tool.
type ListProceduresOutput struct {
	Procedures []ProcedureEntry `json:"procedures"`
	TotalCount int              `json:"total_count"`
	HasMore    bool             `json:"has_more"`
}

// ProcedureDetailsInput names the procedure to describe.
type ProcedureDetailsInput struct {
	ProcedureName string `json:"procedure_name"`
}

// ProcedureParameter describes one parameter of a stored procedure.
type ProcedureParameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Mode string `json:"mode"` // "IN", "OUT", or "INOUT"
}

// ProcedureDetailsOutput is the output of the ProcedureDetails tool.
type ProcedureDetailsOutput struct {
	Name       string               `json:"name"`
	Owner      string               `json:"owner"`
	Parameters []ProcedureParameter `json:"parameters"`
}

// ListIndexesInput filters the index list.
type ListIndexesInput struct {
	TableName string `json:"table_name,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// ListIndexesOutput is the output of the ListIndexes tool.
type ListIndexesOutput struct {
	Indexes    []IndexInfo `json:"indexes"`
	TotalCount int         `json:"total_count"`
	HasMore    bool        `json:"has_more"`
}

// IndexDetailsInput names the index to describe.
type IndexDetailsInput struct {
	IndexName string `json:"index_name"`
}

// IndexDetailsOutput is the output of the IndexDetails tool.
type IndexDetailsOutput struct {
	IndexInfo
}

// DatabaseInfoOutput is the output of the DatabaseInfo tool. Object counts
// only cover objects owned by authorized owners.
type DatabaseInfoOutput struct {
	DatabaseName   string `json:"database_name"`
	Version        string `json:"version"`
	Charset        string `json:"charset,omitempty"`
	Collation      string `json:"collation,omitempty"`
	PageSize       int64  `json:"page_size,omitempty"`
	TableCount     int64  `json:"table_count"`
	ViewCount      int64  `json:"view_count"`
	ProcedureCount int64  `json:"procedure_count"`
}
