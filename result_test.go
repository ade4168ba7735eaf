package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// TestColumnKinds tests column classification from cell values
func TestColumnKinds(t *testing.T) {
	table := MockResultTable(
		[]string{"name", "total", "ratio", "when", "active", "empty"},
		[][]interface{}{
			{"Alice", int64(3), 1.5, time.Now(), true, nil},
			{"Bob", int64(1), 2.5, time.Now(), false, nil},
		},
	)

	kinds := table.ColumnKinds()
	expected := []ColumnKind{KindText, KindNumber, KindNumber, KindTime, KindBool, KindText}
	for i, want := range expected {
		if kinds[i] != want {
			t.Errorf("Column %q: expected %v, got %v", table.Columns[i], want, kinds[i])
		}
	}
}

// TestColumnKindsSkipsLeadingNulls tests that the first non-nil value decides
func TestColumnKindsSkipsLeadingNulls(t *testing.T) {
	table := MockResultTable([]string{"v"}, [][]interface{}{
		{nil},
		{int64(7)},
	})

	if kinds := table.ColumnKinds(); kinds[0] != KindNumber {
		t.Errorf("Expected number after leading null, got %v", kinds[0])
	}
}

// TestNumericColumns tests numeric index collection
func TestNumericColumns(t *testing.T) {
	table := MockResultTable(
		[]string{"name", "total", "note", "price"},
		[][]interface{}{{"a", int64(1), "x", 2.5}},
	)

	numeric := table.NumericColumns()
	if len(numeric) != 2 || numeric[0] != 1 || numeric[1] != 3 {
		t.Errorf("Expected [1 3], got %v", numeric)
	}
}

// TestFloat64At tests numeric cell access
func TestFloat64At(t *testing.T) {
	table := MockResultTable([]string{"v"}, [][]interface{}{
		{int64(3)},
		{2.5},
		{"4.25"},
		{"not a number"},
		{nil},
	})

	testCases := []struct {
		row      int
		expected float64
		ok       bool
	}{
		{0, 3, true},
		{1, 2.5, true},
		{2, 4.25, true},
		{3, 0, false},
		{4, 0, false},
	}

	for _, tc := range testCases {
		got, ok := table.Float64At(tc.row, 0)
		if ok != tc.ok || got != tc.expected {
			t.Errorf("Row %d: expected (%v, %v), got (%v, %v)", tc.row, tc.expected, tc.ok, got, ok)
		}
	}
}

// TestFormatCell tests display formatting of cell values
func TestFormatCell(t *testing.T) {
	testCases := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"Nil", nil, ""},
		{"String", "hello", "hello"},
		{"Int", int64(42), "42"},
		{"WholeFloat", 42.0, "42"},
		{"Float", 3.14, "3.14"},
		{"BoolTrue", true, "true"},
		{"DateOnly", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "2025-03-01"},
		{"DateTime", time.Date(2025, 3, 1, 14, 30, 5, 0, time.UTC), "2025-03-01 14:30:05"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatCell(tc.value); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

// TestWriteCSV tests CSV export with header and NULL handling
func TestWriteCSV(t *testing.T) {
	table := MockResultTable(
		[]string{"city", "total"},
		[][]interface{}{
			{"Seoul", int64(120)},
			{"with, comma", nil},
		},
	)

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "city,total" {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if lines[1] != "Seoul,120" {
		t.Errorf("Unexpected row %q", lines[1])
	}
	if lines[2] != `"with, comma",` {
		t.Errorf("Expected quoted comma cell and empty NULL, got %q", lines[2])
	}
}

// TestColumnIndex tests column lookup by name
// TestSummarize tests numeric column aggregation
func TestSummarize(t *testing.T) {
	t.Run("NumericColumns", func(t *testing.T) {
		table := MockResultTable(
			[]string{"city", "orders", "revenue"},
			[][]interface{}{
				{"Seoul", int64(10), 100.0},
				{"Busan", int64(20), 50.0},
				{"Daegu", int64(30), 150.0},
			},
		)

		summaries := table.Summarize()
		if len(summaries) != 2 {
			t.Fatalf("Expected 2 summaries, got %d", len(summaries))
		}

		orders := summaries[0]
		if orders.Column != "orders" {
			t.Errorf("Expected first summary for orders, got %q", orders.Column)
		}
		if orders.Sum != 60 || orders.Avg != 20 || orders.Min != 10 || orders.Max != 30 {
			t.Errorf("Unexpected orders summary: %+v", orders)
		}

		revenue := summaries[1]
		if revenue.Sum != 300 || revenue.Avg != 100 || revenue.Min != 50 || revenue.Max != 150 {
			t.Errorf("Unexpected revenue summary: %+v", revenue)
		}
	})

	t.Run("SingleRowHasNoSummary", func(t *testing.T) {
		table := MockResultTable(
			[]string{"total"},
			[][]interface{}{{int64(42)}},
		)
		if got := table.Summarize(); got != nil {
			t.Errorf("Expected no summary for single row, got %+v", got)
		}
	})

	t.Run("TextOnlyHasNoSummary", func(t *testing.T) {
		table := MockResultTable(
			[]string{"name"},
			[][]interface{}{{"Alice"}, {"Bob"}},
		)
		if got := table.Summarize(); got != nil {
			t.Errorf("Expected no summary for text columns, got %+v", got)
		}
	})
}

func TestColumnIndex(t *testing.T) {
	table := MockResultTable([]string{"a", "b"}, nil)
	if table.ColumnIndex("b") != 1 {
		t.Error("Expected index 1 for column b")
	}
	if table.ColumnIndex("z") != -1 {
		t.Error("Expected -1 for unknown column")
	}
}
