package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"easysql/internal/nl2sql"
)

// scriptedTranslator returns canned SQL per attempt and records requests
type scriptedTranslator struct {
	sql      []string
	err      error
	requests []nl2sql.Request
}

func (s *scriptedTranslator) Translate(ctx context.Context, req nl2sql.Request) (nl2sql.Result, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nl2sql.Result{}, s.err
	}
	i := len(s.requests) - 1
	if i >= len(s.sql) {
		i = len(s.sql) - 1
	}
	return nl2sql.Result{SQL: s.sql[i], Provider: "test", Model: "test-model"}, nil
}

func newTestAssistant(db *DB, translator nl2sql.Translator) *Assistant {
	return &Assistant{db: db, translator: translator, maxRetries: 3}
}

// TestAskSuccess tests the happy path from question to result
func TestAskSuccess(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &scriptedTranslator{sql: []string{"SELECT COUNT(*) AS total FROM customers"}}
	assistant := newTestAssistant(db, translator)

	answer, err := assistant.Ask(context.Background(), "How many customers are there?", nil)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if answer.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", answer.Attempts)
	}
	if answer.Provider != "test" || answer.Model != "test-model" {
		t.Errorf("Unexpected provenance %q/%q", answer.Provider, answer.Model)
	}
	if answer.Table.RowCount() != 1 {
		t.Errorf("Expected 1 result row, got %d", answer.Table.RowCount())
	}
	if answer.ChartType != ChartMetric {
		t.Errorf("Expected metric chart for single count, got %v", answer.ChartType)
	}

	// Schema was passed to the model
	if len(translator.requests) != 1 {
		t.Fatalf("Expected 1 translation request, got %d", len(translator.requests))
	}
	if !strings.Contains(translator.requests[0].SchemaInfo, "Table: customers") {
		t.Error("Expected schema info in translation request")
	}

	// The exchange was persisted
	entries, err := db.QueryHistory(5)
	if err != nil {
		t.Fatalf("QueryHistory failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Question != "How many customers are there?" {
		t.Errorf("Expected persisted history entry, got %+v", entries)
	}
}

// TestAskRetriesOnExecutionError tests self-correction after a failed query
func TestAskRetriesOnExecutionError(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &scriptedTranslator{sql: []string{
		"SELECT * FROM no_such_table",
		"SELECT COUNT(*) FROM customers",
	}}
	assistant := newTestAssistant(db, translator)

	answer, err := assistant.Ask(context.Background(), "count customers", nil)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if answer.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", answer.Attempts)
	}
	if len(translator.requests) != 2 {
		t.Fatalf("Expected 2 translation requests, got %d", len(translator.requests))
	}

	// The retry carried the failed SQL and its error back to the model
	second := translator.requests[1]
	if second.PreviousSQL != "SELECT * FROM no_such_table" {
		t.Errorf("Expected previous SQL in retry, got %q", second.PreviousSQL)
	}
	if second.ExecError == "" {
		t.Error("Expected execution error in retry request")
	}
	if second.Attempt != 2 {
		t.Errorf("Expected attempt number 2, got %d", second.Attempt)
	}
}

// TestAskRejectsUnsafeSQL tests that banned statements never execute
func TestAskRejectsUnsafeSQL(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &scriptedTranslator{sql: []string{"DROP TABLE customers"}}
	assistant := newTestAssistant(db, translator)

	_, err := assistant.Ask(context.Background(), "delete everything", nil)
	if err == nil {
		t.Fatal("Expected error for unsafe SQL")
	}

	// The table survived
	result, qerr := db.ExecuteQuery(context.Background(), "SELECT COUNT(*) FROM customers")
	if qerr != nil {
		t.Fatalf("Table should still exist: %v", qerr)
	}
	if result.RowCount() != 1 {
		t.Error("Expected customers table to be intact")
	}
}

// TestAskGenerationFailureIsTerminal tests that unreachable models do not retry
func TestAskGenerationFailureIsTerminal(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &scriptedTranslator{err: fmt.Errorf("connection refused")}
	assistant := newTestAssistant(db, translator)

	_, err := assistant.Ask(context.Background(), "anything", nil)
	if err == nil {
		t.Fatal("Expected error when the model is unreachable")
	}
	if len(translator.requests) != 1 {
		t.Errorf("Expected exactly 1 attempt for a generation failure, got %d", len(translator.requests))
	}
}

// TestAskExhaustsRetries tests the attempt cap on repeated failures
func TestAskExhaustsRetries(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &scriptedTranslator{sql: []string{"SELECT * FROM no_such_table"}}
	assistant := newTestAssistant(db, translator)

	_, err := assistant.Ask(context.Background(), "broken", nil)
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if len(translator.requests) != 3 {
		t.Errorf("Expected 3 attempts, got %d", len(translator.requests))
	}

	// Failed questions do not pollute history
	entries, herr := db.QueryHistory(5)
	if herr != nil {
		t.Fatalf("QueryHistory failed: %v", herr)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(entries))
	}
}

// TestAskPassesConversationHistory tests follow-up question context
func TestAskPassesConversationHistory(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &scriptedTranslator{sql: []string{"SELECT COUNT(*) FROM orders"}}
	assistant := newTestAssistant(db, translator)

	history := []nl2sql.Turn{
		{Question: "How many customers?", SQL: "SELECT COUNT(*) FROM customers"},
	}
	if _, err := assistant.Ask(context.Background(), "And how many orders?", history); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if len(translator.requests[0].History) != 1 {
		t.Errorf("Expected 1 history turn in request, got %d", len(translator.requests[0].History))
	}
}

// TestNewAssistantFor tests explicit provider and model selection
func TestNewAssistantFor(t *testing.T) {
	settings := TestSettings()
	settings.OpenAIAPIKey = "test-key"
	settings.AnthropicAPIKey = "test-key"

	t.Run("ExplicitProvider", func(t *testing.T) {
		assistant, err := NewAssistantFor(settings, nil, "anthropic", "claude-haiku-4-5")
		if err != nil {
			t.Fatalf("NewAssistantFor failed: %v", err)
		}
		if assistant == nil {
			t.Fatal("Expected assistant")
		}
	})

	t.Run("EmptyFallsBackToSettings", func(t *testing.T) {
		assistant, err := NewAssistantFor(settings, nil, "", "")
		if err != nil {
			t.Fatalf("NewAssistantFor failed: %v", err)
		}
		if assistant == nil {
			t.Fatal("Expected assistant")
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		if _, err := NewAssistantFor(settings, nil, "gemini", ""); err == nil {
			t.Error("Expected error for unsupported provider")
		}
	})

	t.Run("MissingKey", func(t *testing.T) {
		bare := TestSettings()
		_, err := NewAssistantFor(bare, nil, "anthropic", "")
		if !errors.Is(err, nl2sql.ErrNoAPIKey) {
			t.Errorf("Expected ErrNoAPIKey, got %v", err)
		}
	})
}
