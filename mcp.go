package sawmcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers every SQL Anywhere tool on the given MCP
// server. All tools are read-only; query execution goes through the full
// validation pipeline and catalog tools only see authorized owners.
func RegisterMCPTools(mcpServer *server.MCPServer, saw *SQLAnywhereMcp) {
	// Connect tool. The connection is established at startup; this just
	// verifies it is alive and reports what the session can see.
	connectTool := mcp.NewTool("sqlanywhere_connect",
		mcp.WithDescription("Verify the SQL Anywhere connection is alive and report the database name, version, and authorized owners."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(connectTool, saw.loggedToolHandler("sqlanywhere_connect", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := saw.Ping(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		info, err := saw.DatabaseInfo(ctx)
		if err != nil {
			return saw.catalogError(err), nil
		}
		msg := fmt.Sprintf("Connected to SQL Anywhere database %q (version %s). Authorized owners: %s.",
			info.DatabaseName, info.Version, strings.Join(saw.AuthorizedOwners(), ", "))
		return mcp.NewToolResultText(msg), nil
	}))

	// ExecuteQuery tool
	executeQueryTool := mcp.NewTool("sqlanywhere_execute_query",
		mcp.WithDescription("Execute a read-only SELECT query against the SQL Anywhere database. "+
			"Only SELECT statements referencing authorized owners are accepted. "+
			"Results are capped at a configurable row limit."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The SELECT statement to execute. Table references must be owner-qualified, e.g. monitor.Part."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum rows to return. Defaults to the configured default limit; values above the ceiling are rejected."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(executeQueryTool, saw.loggedToolHandler("sqlanywhere_execute_query", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query parameter is required"), nil
		}
		output := saw.ExecuteQuery(ctx, QueryInput{
			Query: query,
			Limit: req.GetInt("limit", 0),
		})
		return renderResult(req, output.Error, func(r Renderer) (string, error) {
			return r.QueryResult(output)
		})
	}))

	// QueryBuilder tool
	queryBuilderTool := mcp.NewTool("sqlanywhere_query_builder",
		mcp.WithDescription("Build and execute a simple SELECT from structured parts. "+
			"Safer than raw SQL for single-table reads; the assembled statement still goes through full validation."),
		mcp.WithString("table_name",
			mcp.Required(),
			mcp.Description("Owner-qualified table name, e.g. monitor.Part."),
		),
		mcp.WithString("columns",
			mcp.Description("Comma-separated column names, or * for all columns (default)."),
		),
		mcp.WithString("where",
			mcp.Description("Optional WHERE clause body, without the WHERE keyword."),
		),
		mcp.WithString("order_by",
			mcp.Description("Optional ORDER BY clause body, e.g. \"PartNumber DESC\"."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum rows to return."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(queryBuilderTool, saw.loggedToolHandler("sqlanywhere_query_builder", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tableName, err := req.RequireString("table_name")
		if err != nil {
			return mcp.NewToolResultError("table_name parameter is required"), nil
		}
		output := saw.BuildAndExecute(ctx, BuildQueryInput{
			TableName: tableName,
			Columns:   req.GetString("columns", ""),
			Where:     req.GetString("where", ""),
			OrderBy:   req.GetString("order_by", ""),
			Limit:     req.GetInt("limit", 0),
		})
		return renderResult(req, output.Error, func(r Renderer) (string, error) {
			return r.QueryResult(output)
		})
	}))

	// ValidateQuery tool
	validateQueryTool := mcp.NewTool("sqlanywhere_validate_query",
		mcp.WithDescription("Check whether a query would pass safety validation without executing it. "+
			"Returns the verdict and, when invalid, the rejection reason."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The SQL statement to validate."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(validateQueryTool, saw.loggedToolHandler("sqlanywhere_validate_query", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query parameter is required"), nil
		}
		output := saw.ValidateQuery(ValidateQueryInput{Query: query})
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.Validation(output)
		})
	}))

	// ListTables tool
	listTablesTool := mcp.NewTool("sqlanywhere_list_tables",
		mcp.WithDescription("List base tables owned by authorized owners, with approximate row counts."),
		mcp.WithString("owner",
			mcp.Description("Filter to a single authorized owner. Mutually exclusive with search."),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring filter on table names. Mutually exclusive with owner."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum tables to return (default 100)."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(listTablesTool, saw.loggedToolHandler("sqlanywhere_list_tables", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		output, err := saw.ListTables(ctx, ListTablesInput{
			Owner:  req.GetString("owner", ""),
			Search: req.GetString("search", ""),
			Limit:  req.GetInt("limit", 0),
		})
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.Tables(output)
		})
	}))

	// TableDetails tool
	tableDetailsTool := mcp.NewTool("sqlanywhere_get_table_details",
		mcp.WithDescription("Describe a table: columns, primary keys, foreign keys, and indexes."),
		mcp.WithString("table_name",
			mcp.Required(),
			mcp.Description("The table name, with or without owner prefix."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(tableDetailsTool, saw.loggedToolHandler("sqlanywhere_get_table_details", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tableName, err := req.RequireString("table_name")
		if err != nil {
			return mcp.NewToolResultError("table_name parameter is required"), nil
		}
		output, err := saw.TableDetails(ctx, TableDetailsInput{TableName: tableName})
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.TableDetails(output)
		})
	}))

	// ListViews tool
	listViewsTool := mcp.NewTool("sqlanywhere_list_views",
		mcp.WithDescription("List views owned by authorized owners."),
		mcp.WithString("owner",
			mcp.Description("Filter to a single authorized owner. Mutually exclusive with search."),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring filter on view names. Mutually exclusive with owner."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum views to return (default 100)."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(listViewsTool, saw.loggedToolHandler("sqlanywhere_list_views", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		output, err := saw.ListViews(ctx, ListViewsInput{
			Owner:  req.GetString("owner", ""),
			Search: req.GetString("search", ""),
			Limit:  req.GetInt("limit", 0),
		})
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.Views(output)
		})
	}))

	// ViewDetails tool
	viewDetailsTool := mcp.NewTool("sqlanywhere_get_view_details",
		mcp.WithDescription("Describe a view: its columns and their types."),
		mcp.WithString("view_name",
			mcp.Required(),
			mcp.Description("The view name, with or without owner prefix."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(viewDetailsTool, saw.loggedToolHandler("sqlanywhere_get_view_details", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		viewName, err := req.RequireString("view_name")
		if err != nil {
			return mcp.NewToolResultError("view_name parameter is required"), nil
		}
		output, err := saw.ViewDetails(ctx, ViewDetailsInput{ViewName: viewName})
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.ViewDetails(output)
		})
	}))

	// ListProcedures tool
	listProceduresTool := mcp.NewTool("sqlanywhere_list_procedures",
		mcp.WithDescription("List stored procedures and functions owned by authorized owners."),
		mcp.WithString("owner",
			mcp.Description("Filter to a single authorized owner. Mutually exclusive with search."),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring filter on procedure names. Mutually exclusive with owner."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum procedures to return (default 100)."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(listProceduresTool, saw.loggedToolHandler("sqlanywhere_list_procedures", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		output, err := saw.ListProcedures(ctx, ListProceduresInput{
			Owner:  req.GetString("owner", ""),
			Search: req.GetString("search", ""),
			Limit:  req.GetInt("limit", 0),
		})
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.Procedures(output)
		})
	}))

	// ProcedureDetails tool
	procedureDetailsTool := mcp.NewTool("sqlanywhere_get_procedure_details",
		mcp.WithDescription("Describe a stored procedure: its parameters, their types, and in/out modes."),
		mcp.WithString("procedure_name",
			mcp.Required(),
			mcp.Description("The procedure name, with or without owner prefix."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(procedureDetailsTool, saw.loggedToolHandler("sqlanywhere_get_procedure_details", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		procName, err := req.RequireString("procedure_name")
		if err != nil {
			return mcp.NewToolResultError("procedure_name parameter is required"), nil
		}
		output, err := saw.ProcedureDetails(ctx, ProcedureDetailsInput{ProcedureName: procName})
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.ProcedureDetails(output)
		})
	}))

	// ListIndexes tool
	listIndexesTool := mcp.NewTool("sqlanywhere_list_indexes",
		mcp.WithDescription("List indexes on tables owned by authorized owners, optionally filtered to one table."),
		mcp.WithString("table_name",
			mcp.Description("Filter to indexes on a single table."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum indexes to return (default 100)."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(listIndexesTool, saw.loggedToolHandler("sqlanywhere_list_indexes", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		output, err := saw.ListIndexes(ctx, ListIndexesInput{
			TableName: req.GetString("table_name", ""),
			Limit:     req.GetInt("limit", 0),
		})
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.Indexes(output)
		})
	}))

	// IndexDetails tool
	indexDetailsTool := mcp.NewTool("sqlanywhere_get_index_details",
		mcp.WithDescription("Describe an index: its table, uniqueness, and columns in order."),
		mcp.WithString("index_name",
			mcp.Required(),
			mcp.Description("The index name."),
		),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(indexDetailsTool, saw.loggedToolHandler("sqlanywhere_get_index_details", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		indexName, err := req.RequireString("index_name")
		if err != nil {
			return mcp.NewToolResultError("index_name parameter is required"), nil
		}
		output, err := saw.IndexDetails(ctx, IndexDetailsInput{IndexName: indexName})
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.IndexDetails(output)
		})
	}))

	// DatabaseInfo tool
	databaseInfoTool := mcp.NewTool("sqlanywhere_get_database_info",
		mcp.WithDescription("Report database name, version, character set, page size, and object counts for authorized owners."),
		formatParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(databaseInfoTool, saw.loggedToolHandler("sqlanywhere_get_database_info", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		output, err := saw.DatabaseInfo(ctx)
		if err != nil {
			return saw.catalogError(err), nil
		}
		return renderResult(req, "", func(r Renderer) (string, error) {
			return r.DatabaseInfo(output)
		})
	}))
}

// formatParam is the shared response_format parameter definition.
func formatParam() mcp.ToolOption {
	return mcp.WithString("response_format",
		mcp.Description("Output format: \"markdown\" (default) or \"json\"."),
	)
}

// renderResult renders a tool output with the requested Renderer. A non-empty
// errMsg short-circuits to a tool error; suggestions were already appended by
// the pipeline.
func renderResult(req mcp.CallToolRequest, errMsg string, render func(Renderer) (string, error)) (*mcp.CallToolResult, error) {
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}
	text, err := render(RendererFor(req.GetString("response_format", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// catalogError converts a catalog lookup failure into a tool error, with any
// matching guidance suggestion appended.
func (s *SQLAnywhereMcp) catalogError(err error) *mcp.CallToolResult {
	s.logger.Warn().Err(err).Msg("catalog tool failed")
	return mcp.NewToolResultError(s.prompts.Annotate(err.Error()))
}

// loggedToolHandler wraps a tool handler to log request and response lengths.
func (s *SQLAnywhereMcp) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqLen := requestLength(req)
		result, err := handler(ctx, req)
		respLen := resultLength(result)
		s.logger.Info().
			Str("tool", tool).
			Int("request_bytes", reqLen).
			Int("response_bytes", respLen).
			Msg("tool call")
		return result, err
	}
}

// requestLength returns the JSON-encoded byte length of the request arguments.
func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	b, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultLength returns the total byte length of text content in a CallToolResult.
func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
