package nl2sql

import (
	"fmt"
	"strings"
)

// SystemPrompt builds the instruction block handed to the model. The
// schema text comes straight from the database catalog.
func SystemPrompt(schemaInfo string) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are an expert SQL query generator. Convert natural language questions into valid SQL queries.

Database Schema:
%s

Rules:
1. Generate ONLY the SQL query (no explanation)
2. SQL syntax must be correct
3. Use proper JOINs when referencing multiple tables
4. Add LIMIT clauses when appropriate
5. Only generate SELECT queries
6. Use exact column/table names
`, schemaInfo))
}

// userPrompt renders the question, appending correction context when a
// previous attempt failed to execute.
func userPrompt(req Request) string {
	if req.ExecError == "" || req.PreviousSQL == "" {
		return req.Question
	}
	return fmt.Sprintf(`%s

Your previous SQL query failed to execute (attempt %d).

Previous SQL:
%s

Error message:
%s

Fix the query. Check column and table names against the schema, JOIN conditions and GROUP BY usage. Return ONLY the corrected SQL query.`,
		req.Question, req.Attempt, req.PreviousSQL, req.ExecError)
}
