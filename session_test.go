package main

import (
	"fmt"
	"testing"

	"easysql/internal/nl2sql"
)

// TestSessionHistory tests adding, reading and clearing conversation turns
func TestSessionHistory(t *testing.T) {
	store := NewSessionStore()
	id := NewSessionID()

	if got := store.History(id); len(got) != 0 {
		t.Errorf("Expected empty history, got %d turns", len(got))
	}

	store.AddTurn(id, nl2sql.Turn{Question: "q1", SQL: "SELECT 1"})
	store.AddTurn(id, nl2sql.Turn{Question: "q2", SQL: "SELECT 2"})

	history := store.History(id)
	if len(history) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(history))
	}
	if history[0].Question != "q1" || history[1].Question != "q2" {
		t.Errorf("Turns out of order: %+v", history)
	}

	store.ClearHistory(id)
	if got := store.History(id); len(got) != 0 {
		t.Errorf("Expected history cleared, got %d turns", len(got))
	}
}

// TestSessionHistoryCap tests that old turns are dropped past the cap
func TestSessionHistoryCap(t *testing.T) {
	store := NewSessionStore()
	id := NewSessionID()

	for i := 0; i < maxHistory+10; i++ {
		store.AddTurn(id, nl2sql.Turn{Question: fmt.Sprintf("q%d", i)})
	}

	history := store.History(id)
	if len(history) != maxHistory {
		t.Fatalf("Expected %d turns after cap, got %d", maxHistory, len(history))
	}
	if history[0].Question != "q10" {
		t.Errorf("Expected oldest kept turn to be q10, got %q", history[0].Question)
	}
}

// TestSessionIsolation tests that sessions do not share state
func TestSessionIsolation(t *testing.T) {
	store := NewSessionStore()
	a, b := NewSessionID(), NewSessionID()

	store.AddTurn(a, nl2sql.Turn{Question: "from a"})

	if got := store.History(b); len(got) != 0 {
		t.Errorf("Expected session b to be empty, got %d turns", len(got))
	}
}

// TestStoreResult tests stashing answers for the chart and export endpoints
func TestStoreResult(t *testing.T) {
	store := NewSessionStore()
	id := NewSessionID()

	answer := &Answer{SQL: "SELECT 1", Table: MockResultTable([]string{"x"}, nil)}
	resultID := store.StoreResult(id, answer)
	if resultID == "" {
		t.Fatal("Expected non-empty result ID")
	}

	stored, ok := store.Result(id, resultID)
	if !ok {
		t.Fatal("Expected stored result to be found")
	}
	if stored.Answer != answer {
		t.Error("Expected the same answer back")
	}

	if _, ok := store.Result(id, "missing"); ok {
		t.Error("Expected lookup miss for unknown result ID")
	}

	// Results are scoped to the session that stored them
	if _, ok := store.Result(NewSessionID(), resultID); ok {
		t.Error("Expected result to be invisible to other sessions")
	}
}

// TestStoredResultsCap tests eviction of the oldest stored results
func TestStoredResultsCap(t *testing.T) {
	store := NewSessionStore()
	id := NewSessionID()

	var first string
	for i := 0; i < maxStoredItems+5; i++ {
		resultID := store.StoreResult(id, &Answer{})
		if i == 0 {
			first = resultID
		}
	}

	if _, ok := store.Result(id, first); ok {
		t.Error("Expected oldest result to be evicted")
	}
}

// TestNewSessionID tests token uniqueness
func TestNewSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := NewSessionID()
		if token == "" {
			t.Fatal("Expected non-empty token")
		}
		if seen[token] {
			t.Fatalf("Duplicate token %q", token)
		}
		seen[token] = true
	}
}
