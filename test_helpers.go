package main

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestDB creates a seeded DuckDB database in a temp directory
func SetupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "easysql-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	settings := TestSettings()
	settings.DBPath = filepath.Join(tmpDir, "test.db")

	db, err := OpenDB(settings)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

// TestSettings returns settings pointing at a DuckDB file backend
func TestSettings() *Settings {
	return &Settings{
		DBType:        "duckdb",
		DBPath:        "test.db",
		LLMProvider:   ProviderOpenAI,
		LLMModel:      "gpt-4o",
		SQLMaxRetries: 3,
		HTTPPort:      3000,
		MaxRows:       1000,
	}
}

// MockResultTable builds a small two column result for chart tests
func MockResultTable(columns []string, rows [][]interface{}) *ResultTable {
	return &ResultTable{Columns: columns, Rows: rows}
}
