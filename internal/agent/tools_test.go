package agent

import (
	"context"
	"strings"
	"testing"

	"charm.land/fantasy"
)

// Mock implementations for testing
type mockDB struct {
	tables []string
	rows   []map[string]interface{}
}

func (m *mockDB) Tables() ([]string, error) {
	return m.tables, nil
}

func (m *mockDB) Schema(table string) (string, error) {
	return "Table: " + table + "\n  - id (INTEGER) NOT NULL\n", nil
}

func (m *mockDB) Query(ctx context.Context, sql string) ([]map[string]interface{}, error) {
	return m.rows, nil
}

func (m *mockDB) Close() error {
	return nil
}

func mockInitDB(db *mockDB) InitDBFunc {
	return func() (DBInterface, func(), error) {
		return db, func() {}, nil
	}
}

func runTool(t *testing.T, tool fantasy.AgentTool, input string) fantasy.ToolResponse {
	t.Helper()
	resp, err := tool.Run(context.Background(), fantasy.ToolCall{Input: input})
	if err != nil {
		t.Fatalf("Tool execution failed: %v", err)
	}
	return resp
}

func TestCreateDatabaseTools(t *testing.T) {
	tools := CreateDatabaseTools(mockInitDB(&mockDB{}))

	if len(tools) != 3 {
		t.Fatalf("Expected 3 tools, got %d", len(tools))
	}

	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Info().Name
	}
	expected := []string{"list_tables", "table_schema", "run_query"}
	for i, want := range expected {
		if names[i] != want {
			t.Errorf("Tool %d: expected name %q, got %q", i, want, names[i])
		}
	}
}

func TestSchemaToolInfo(t *testing.T) {
	tool := createSchemaTool(mockInitDB(&mockDB{}))

	info := tool.Info()
	if _, ok := info.Parameters["table"]; !ok {
		t.Errorf("Expected table parameter in schema, got %v", info.Parameters)
	}
	if len(info.Required) != 1 || info.Required[0] != "table" {
		t.Errorf("Expected table to be required, got %v", info.Required)
	}
}

func TestListTablesTool(t *testing.T) {
	db := &mockDB{tables: []string{"customers", "orders"}}
	tool := createListTablesTool(mockInitDB(db))

	resp := runTool(t, tool, `{}`)
	if resp.IsError {
		t.Fatalf("Unexpected error response: %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "customers") || !strings.Contains(resp.Content, "orders") {
		t.Errorf("Expected table names in result, got %q", resp.Content)
	}
}

func TestSchemaTool(t *testing.T) {
	tool := createSchemaTool(mockInitDB(&mockDB{}))

	t.Run("WithTable", func(t *testing.T) {
		resp := runTool(t, tool, `{"table": "customers"}`)
		if resp.IsError {
			t.Fatalf("Unexpected error response: %q", resp.Content)
		}
		if !strings.Contains(resp.Content, "Table: customers") {
			t.Errorf("Expected schema text, got %q", resp.Content)
		}
	})

	t.Run("MissingTable", func(t *testing.T) {
		resp := runTool(t, tool, `{}`)
		if !resp.IsError {
			t.Errorf("Expected error response for missing table parameter, got %q", resp.Content)
		}
	})
}

func TestQueryTool(t *testing.T) {
	db := &mockDB{rows: []map[string]interface{}{
		{"name": "Alice", "total": 120.5},
	}}
	tool := createQueryTool(mockInitDB(db))

	t.Run("SelectQuery", func(t *testing.T) {
		resp := runTool(t, tool, `{"sql": "SELECT name, total FROM customers"}`)
		if resp.IsError {
			t.Fatalf("Unexpected error response: %q", resp.Content)
		}
		if !strings.Contains(resp.Content, "Alice") {
			t.Errorf("Expected row data in result, got %q", resp.Content)
		}
	})

	t.Run("MissingSQL", func(t *testing.T) {
		resp := runTool(t, tool, `{}`)
		if !resp.IsError {
			t.Errorf("Expected error response for missing sql parameter, got %q", resp.Content)
		}
	})

	t.Run("RejectsWriteStatements", func(t *testing.T) {
		for _, input := range []string{
			`{"sql": "DELETE FROM customers"}`,
			`{"sql": "DROP TABLE customers"}`,
			`{"sql": "UPDATE customers SET name = 'x'"}`,
		} {
			if resp := runTool(t, tool, input); !resp.IsError {
				t.Errorf("Expected rejection for %q, got %q", input, resp.Content)
			}
		}
	})
}
