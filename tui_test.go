package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"easysql/internal/nl2sql"
)

// TestInitialModel tests the initial model creation
func TestInitialModel(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	m := initialModel(db, nil)

	if m.currentView != askView {
		t.Errorf("Expected initial view to be askView, got %v", m.currentView)
	}

	if !m.questionInput.Focused() {
		t.Error("Expected question input to be focused initially")
	}

	if m.answer != nil {
		t.Error("Expected no answer initially")
	}

	if m.loading {
		t.Error("Expected loading to be false initially")
	}

	if m.err != nil {
		t.Errorf("Expected no error initially, got %v", m.err)
	}
}

// TestAskViewKeyHandling tests key handling in the ask view
func TestAskViewKeyHandling(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	t.Run("EmptyQuestionIsIgnored", func(t *testing.T) {
		m := initialModel(db, nil)
		newModel, c := m.handleAskViewKeys(tea.KeyMsg{Type: tea.KeyEnter})
		m = newModel.(model)

		if m.loading {
			t.Error("Expected no loading state for empty question")
		}
		if c != nil {
			t.Error("Expected no command for empty question")
		}
	})

	t.Run("QuestionWithoutAssistant", func(t *testing.T) {
		m := initialModel(db, nil)
		m.questionInput.SetValue("How many customers are there?")

		newModel, _ := m.handleAskViewKeys(tea.KeyMsg{Type: tea.KeyEnter})
		m = newModel.(model)

		if m.err == nil {
			t.Error("Expected error when no assistant is configured")
		}
	})

	t.Run("CtrlNClearsConversation", func(t *testing.T) {
		m := initialModel(db, nil)
		m.conversation = append(m.conversation, nl2sql.Turn{Question: "q1", SQL: "SELECT 1"})

		newModel, _ := m.handleAskViewKeys(tea.KeyMsg{Type: tea.KeyCtrlN})
		m = newModel.(model)

		if len(m.conversation) != 0 {
			t.Errorf("Expected conversation to be cleared, got %d turns", len(m.conversation))
		}
	})
}

// TestAnswerMsgHandling tests that a successful answer switches to the result view
func TestAnswerMsgHandling(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	m := initialModel(db, nil)
	m.width = 100
	m.height = 40

	answer := &Answer{
		Question:  "How many customers?",
		SQL:       "SELECT COUNT(*) FROM customers",
		Provider:  "openai",
		Model:     "gpt-4o",
		Attempts:  1,
		Table:     MockResultTable([]string{"count"}, [][]interface{}{{int64(100)}}),
		ChartType: ChartMetric,
	}

	newModel, _ := m.Update(answerMsg{answer: answer})
	m = newModel.(model)

	if m.currentView != resultView {
		t.Errorf("Expected resultView after answer, got %v", m.currentView)
	}
	if m.answer != answer {
		t.Error("Expected answer to be stored on the model")
	}
	if len(m.conversation) != 1 {
		t.Errorf("Expected 1 conversation turn, got %d", len(m.conversation))
	}
	if m.chartKind != ChartMetric {
		t.Errorf("Expected chart kind metric, got %v", m.chartKind)
	}
}

// TestResultViewKeyHandling tests key handling in the result view
func TestResultViewKeyHandling(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	m := initialModel(db, nil)
	m.currentView = resultView
	m.answer = &Answer{
		SQL:       "SELECT 1",
		Table:     MockResultTable([]string{"x"}, [][]interface{}{{int64(1)}}),
		ChartType: ChartTable,
	}

	t.Run("EscReturnsToAskView", func(t *testing.T) {
		newModel, _ := m.handleResultViewKeys(tea.KeyMsg{Type: tea.KeyEsc})
		updated := newModel.(model)

		if updated.currentView != askView {
			t.Errorf("Expected askView after Esc, got %v", updated.currentView)
		}
	})

	t.Run("CtrlTCyclesChartKind", func(t *testing.T) {
		newModel, _ := m.handleResultViewKeys(tea.KeyMsg{Type: tea.KeyCtrlT})
		updated := newModel.(model)

		if updated.chartKind == m.chartKind {
			t.Error("Expected chart kind to change")
		}
	})

	t.Run("CtrlEOpensExportPrompt", func(t *testing.T) {
		newModel, _ := m.handleResultViewKeys(tea.KeyMsg{Type: tea.KeyCtrlE})
		updated := newModel.(model)

		if updated.currentView != exportPromptView {
			t.Errorf("Expected exportPromptView, got %v", updated.currentView)
		}
		if updated.exportInput.Value() != "query_results.csv" {
			t.Errorf("Expected pre-filled filename, got %q", updated.exportInput.Value())
		}
	})
}

// TestNextChartKind tests the chart cycle order
func TestNextChartKind(t *testing.T) {
	if got := nextChartKind(ChartTable); got != ChartBar {
		t.Errorf("Expected bar after table, got %v", got)
	}
	if got := nextChartKind(ChartMetric); got != ChartTable {
		t.Errorf("Expected cycle to wrap to table, got %v", got)
	}
	if got := nextChartKind(ChartType("bogus")); got != ChartTable {
		t.Errorf("Expected fallback to table for unknown kind, got %v", got)
	}
}

// TestResultTableText tests the aligned text rendering of results
func TestResultTableText(t *testing.T) {
	table := MockResultTable(
		[]string{"city", "total"},
		[][]interface{}{
			{"Seoul", int64(120)},
			{"Busan", int64(80)},
		},
	)

	text := resultTableText(table, 50)

	for _, want := range []string{"city", "total", "Seoul", "120"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in rendered table:\n%s", want, text)
		}
	}
}

// TestResultTableTextLimit tests row truncation in the TUI table
func TestResultTableTextLimit(t *testing.T) {
	rows := make([][]interface{}, 60)
	for i := range rows {
		rows[i] = []interface{}{int64(i)}
	}
	table := MockResultTable([]string{"n"}, rows)

	text := resultTableText(table, 50)
	if !strings.Contains(text, "showing first 50 of 60 rows") {
		t.Errorf("Expected truncation notice, got:\n%s", text)
	}
}

// TestHistoryItemRendering tests list item titles
func TestHistoryItemRendering(t *testing.T) {
	item := historyItem{entry: HistoryEntry{
		Question: "Top cities by revenue",
		SQL:      "SELECT city, SUM(total_amount) FROM orders GROUP BY city",
		RowCount: 10,
		AskedAt:  time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
	}}

	if item.Title() != "Top cities by revenue" {
		t.Errorf("Unexpected title %q", item.Title())
	}
	if !strings.Contains(item.Description(), "10 rows") {
		t.Errorf("Expected row count in description, got %q", item.Description())
	}
	if !strings.Contains(item.Description(), "2025-06-01") {
		t.Errorf("Expected date in description, got %q", item.Description())
	}
}
