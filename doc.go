// Package sawmcp provides safe, read-only SAP SQL Anywhere access for AI
// agents through the Model Context Protocol (MCP).
//
// Every query goes through a layered validation pipeline before it touches
// the database: statement classification (SELECT only, with a keyword
// denylist), owner authorization against a configured allowlist, row limit
// resolution against a hard ceiling, and per-pattern timeouts. Catalog tools
// (tables, views, procedures, indexes, database info) are filtered to the
// same authorized owners, so the server never reveals objects the session
// is not allowed to read.
//
// The pipeline is deliberately conservative pattern matching, not a SQL
// parser. It rejects some legal SELECT statements (subqueries in FROM,
// common table expressions) and relies on the database account's own
// privileges as the real security boundary.
//
// # Library Usage
//
//	saw, err := sawmcp.New(ctx, connString, sawmcp.Config{
//		Security: sawmcp.SecurityConfig{
//			AuthorizedOwners: []string{"monitor", "ExtensionsUser"},
//		},
//		Query: sawmcp.QueryConfig{
//			DefaultRowLimit: 1000,
//			MaxRowLimit:     10000,
//		},
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer saw.Close()
//
//	// Use directly
//	output := saw.ExecuteQuery(ctx, sawmcp.QueryInput{
//		Query: "SELECT TOP 10 * FROM monitor.Part",
//	})
//
//	// Or register as MCP tools
//	sawmcp.RegisterMCPTools(mcpServer, saw)
//
// # Error Prompts
//
// Rejections and lookup failures can carry guidance suggestions appended to
// the error text, steering the agent toward the discovery tools instead of
// retrying blind. The default rules cover the built-in rejection reasons;
// extra rules are configured as regex pattern plus suggestion pairs.
package sawmcp
