package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"charm.land/fantasy"

	"easysql/internal/nl2sql"
)

type schemaToolInput struct {
	Table string `json:"table" description:"Name of the table to describe"`
}

type queryToolInput struct {
	SQL string `json:"sql" description:"A single SELECT statement to execute"`
}

type listTablesInput struct{}

// CreateDatabaseTools builds the Fantasy tools exposed to the agent:
// list_tables, table_schema and run_query. Input schemas are generated
// from the typed input structs.
func CreateDatabaseTools(initDB InitDBFunc) []fantasy.AgentTool {
	return []fantasy.AgentTool{
		createListTablesTool(initDB),
		createSchemaTool(initDB),
		createQueryTool(initDB),
	}
}

func createListTablesTool(initDB InitDBFunc) fantasy.AgentTool {
	return fantasy.NewAgentTool(
		"list_tables",
		"List the names of all queryable tables in the database",
		func(ctx context.Context, input listTablesInput, call fantasy.ToolCall) (fantasy.ToolResponse, error) {
			db, cleanup, err := initDB()
			if err != nil {
				return fantasy.ToolResponse{}, fmt.Errorf("failed to initialize database: %w", err)
			}
			defer cleanup()

			tables, err := db.Tables()
			if err != nil {
				return fantasy.NewTextErrorResponse(fmt.Sprintf("failed to list tables: %v", err)), nil
			}
			return jsonResponse(tables)
		},
	)
}

func createSchemaTool(initDB InitDBFunc) fantasy.AgentTool {
	return fantasy.NewAgentTool(
		"table_schema",
		"Show the columns and types of one table",
		func(ctx context.Context, input schemaToolInput, call fantasy.ToolCall) (fantasy.ToolResponse, error) {
			if input.Table == "" {
				return fantasy.NewTextErrorResponse("table parameter is required"), nil
			}

			db, cleanup, err := initDB()
			if err != nil {
				return fantasy.ToolResponse{}, fmt.Errorf("failed to initialize database: %w", err)
			}
			defer cleanup()

			schema, err := db.Schema(input.Table)
			if err != nil {
				return fantasy.NewTextErrorResponse(fmt.Sprintf("failed to read schema: %v", err)), nil
			}
			return fantasy.NewTextResponse(schema), nil
		},
	)
}

func createQueryTool(initDB InitDBFunc) fantasy.AgentTool {
	return fantasy.NewAgentTool(
		"run_query",
		"Run a read-only SQL SELECT query and return the rows as JSON",
		func(ctx context.Context, input queryToolInput, call fantasy.ToolCall) (fantasy.ToolResponse, error) {
			if input.SQL == "" {
				return fantasy.NewTextErrorResponse("sql parameter is required"), nil
			}
			if err := nl2sql.ValidateQuery(input.SQL); err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}

			db, cleanup, err := initDB()
			if err != nil {
				return fantasy.ToolResponse{}, fmt.Errorf("failed to initialize database: %w", err)
			}
			defer cleanup()

			rows, err := db.Query(ctx, input.SQL)
			if err != nil {
				return fantasy.NewTextErrorResponse(fmt.Sprintf("query failed: %v", err)), nil
			}
			return jsonResponse(rows)
		},
	)
}

func jsonResponse(v interface{}) (fantasy.ToolResponse, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fantasy.ToolResponse{}, fmt.Errorf("failed to encode result as JSON: %w", err)
	}
	return fantasy.NewTextResponse(string(jsonBytes)), nil
}
