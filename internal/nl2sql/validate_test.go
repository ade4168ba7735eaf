package nl2sql

import (
	"strings"
	"testing"
)

func TestCleanSQL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain query untouched",
			input: "SELECT * FROM customers",
			want:  "SELECT * FROM customers",
		},
		{
			name:  "sql fence stripped",
			input: "```sql\nSELECT name FROM customers\n```",
			want:  "SELECT name FROM customers",
		},
		{
			name:  "bare fence stripped",
			input: "```\nSELECT 1\n```",
			want:  "SELECT 1",
		},
		{
			name:  "trailing semicolon removed",
			input: "SELECT COUNT(*) FROM orders;",
			want:  "SELECT COUNT(*) FROM orders",
		},
		{
			name:  "fence plus semicolon plus whitespace",
			input: "  ```sql\nSELECT city FROM customers;\n```  ",
			want:  "SELECT city FROM customers",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanSQL(tt.input)
			if got != tt.want {
				t.Errorf("CleanSQL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr bool
	}{
		{
			name: "simple select",
			sql:  "SELECT * FROM customers",
		},
		{
			name: "lowercase select",
			sql:  "select name, email from customers limit 10",
		},
		{
			name: "select with joins and aggregates",
			sql:  "SELECT c.country, SUM(o.total_amount) FROM customers c JOIN orders o ON c.customer_id = o.customer_id GROUP BY c.country",
		},
		{
			name: "column name containing banned substring",
			sql:  "SELECT created_at, updated_at FROM orders WHERE status = 'Completed'",
		},
		{
			name:    "empty query",
			sql:     "   ",
			wantErr: true,
		},
		{
			name:    "insert rejected",
			sql:     "INSERT INTO customers VALUES (1, 'x')",
			wantErr: true,
		},
		{
			name:    "drop hidden after select",
			sql:     "SELECT 1; DROP TABLE customers",
			wantErr: true,
		},
		{
			name:    "delete rejected",
			sql:     "DELETE FROM orders",
			wantErr: true,
		},
		{
			name:    "update rejected",
			sql:     "UPDATE products SET price = 0",
			wantErr: true,
		},
		{
			name:    "create via select into",
			sql:     "SELECT * INTO copy FROM customers; CREATE INDEX idx ON copy(name)",
			wantErr: true,
		},
		{
			name:    "truncate rejected",
			sql:     "TRUNCATE TABLE orders",
			wantErr: true,
		},
		{
			name:    "with clause rejected",
			sql:     "WITH t AS (SELECT 1) SELECT * FROM t",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.sql)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateQuery(%q) = nil, want error", tt.sql)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateQuery(%q) = %v, want nil", tt.sql, err)
			}
		})
	}
}

func TestSystemPrompt(t *testing.T) {
	schema := "Table: customers\n  - customer_id (INTEGER) NOT NULL\n"
	prompt := SystemPrompt(schema)

	if !strings.Contains(prompt, schema) {
		t.Error("system prompt should embed the schema text")
	}
	if !strings.Contains(prompt, "Only generate SELECT queries") {
		t.Error("system prompt should state the SELECT-only rule")
	}
	if strings.HasPrefix(prompt, "\n") || strings.HasSuffix(prompt, "\n") {
		t.Error("system prompt should be trimmed")
	}
}

func TestUserPromptCorrectionContext(t *testing.T) {
	plain := userPrompt(Request{Question: "top customers"})
	if plain != "top customers" {
		t.Errorf("first attempt prompt = %q, want bare question", plain)
	}

	retry := userPrompt(Request{
		Question:    "top customers",
		PreviousSQL: "SELECT nme FROM customers",
		ExecError:   `column "nme" not found`,
		Attempt:     2,
	})
	for _, want := range []string{"top customers", "SELECT nme FROM customers", `column "nme" not found`, "attempt 2"} {
		if !strings.Contains(retry, want) {
			t.Errorf("retry prompt missing %q", want)
		}
	}
}
