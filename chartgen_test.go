package main

import (
	"bytes"
	"testing"
	"time"
)

// TestDetectChartType tests the default chart selection rules
func TestDetectChartType(t *testing.T) {
	testCases := []struct {
		name     string
		table    *ResultTable
		expected ChartType
	}{
		{
			name:     "Nil table",
			table:    nil,
			expected: ChartTable,
		},
		{
			name:     "Empty result",
			table:    MockResultTable([]string{"a", "b"}, nil),
			expected: ChartTable,
		},
		{
			name: "Single numeric value",
			table: MockResultTable([]string{"count"},
				[][]interface{}{{int64(42)}}),
			expected: ChartMetric,
		},
		{
			name: "Category and number with few rows",
			table: MockResultTable([]string{"city", "total"},
				[][]interface{}{
					{"Seoul", int64(10)},
					{"Busan", int64(7)},
				}),
			expected: ChartBar,
		},
		{
			name:     "Category and number with many rows",
			table:    categoryNumberRows(25),
			expected: ChartLine,
		},
		{
			name: "Two numeric columns",
			table: MockResultTable([]string{"price", "quantity"},
				[][]interface{}{
					{1.5, int64(3)},
					{2.5, int64(1)},
				}),
			expected: ChartLine,
		},
		{
			name: "Time and numeric column",
			table: MockResultTable([]string{"day", "total", "note"},
				[][]interface{}{
					{time.Now(), int64(5), "a"},
					{time.Now(), int64(7), "b"},
				}),
			expected: ChartLine,
		},
		{
			name: "All text columns",
			table: MockResultTable([]string{"name", "email"},
				[][]interface{}{{"Alice", "a@x.com"}}),
			expected: ChartTable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectChartType(tc.table); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func categoryNumberRows(n int) *ResultTable {
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = []interface{}{"label", int64(i)}
	}
	return MockResultTable([]string{"label", "value"}, rows)
}

// TestValidChartType tests chart type name validation
func TestValidChartType(t *testing.T) {
	for _, valid := range []string{"table", "metric", "bar", "line", "pie", "scatter", "histogram"} {
		if !ValidChartType(valid) {
			t.Errorf("Expected %q to be valid", valid)
		}
	}
	for _, invalid := range []string{"", "donut", "Bar", "3d"} {
		if ValidChartType(invalid) {
			t.Errorf("Expected %q to be invalid", invalid)
		}
	}
}

// TestXYColumns tests default axis column resolution
func TestXYColumns(t *testing.T) {
	table := MockResultTable([]string{"city", "total", "note"},
		[][]interface{}{{"Seoul", int64(10), "x"}})

	t.Run("Defaults", func(t *testing.T) {
		x, y, err := xyColumns(table, "", "")
		if err != nil {
			t.Fatalf("xyColumns failed: %v", err)
		}
		if x != 0 {
			t.Errorf("Expected x=0, got %d", x)
		}
		if y != 1 {
			t.Errorf("Expected y=1 (first numeric), got %d", y)
		}
	})

	t.Run("Explicit", func(t *testing.T) {
		x, y, err := xyColumns(table, "note", "total")
		if err != nil {
			t.Fatalf("xyColumns failed: %v", err)
		}
		if x != 2 || y != 1 {
			t.Errorf("Expected x=2 y=1, got x=%d y=%d", x, y)
		}
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		if _, _, err := xyColumns(table, "bogus", ""); err == nil {
			t.Error("Expected error for unknown column")
		}
	})
}

// TestRenderChartPNG tests that each renderable chart type produces PNG bytes
func TestRenderChartPNG(t *testing.T) {
	table := MockResultTable([]string{"city", "total"},
		[][]interface{}{
			{"Seoul", int64(120)},
			{"Busan", int64(80)},
			{"Incheon", int64(40)},
		})

	for _, kind := range []ChartType{ChartBar, ChartLine, ChartPie, ChartScatter, ChartHistogram} {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderChartPNG(&buf, table, kind, "Test", "", ""); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			// PNG magic bytes
			if buf.Len() < 8 || !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
				t.Error("Expected PNG output")
			}
		})
	}

	t.Run("MetricRendersAsSingleBar", func(t *testing.T) {
		metric := MockResultTable([]string{"total"}, [][]interface{}{{int64(42)}})
		var buf bytes.Buffer
		if err := RenderChartPNG(&buf, metric, ChartMetric, "Test", "", ""); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
			t.Error("Expected PNG output")
		}
	})

	t.Run("TableIsNotRenderable", func(t *testing.T) {
		var buf bytes.Buffer
		if err := RenderChartPNG(&buf, table, ChartTable, "", "", ""); err == nil {
			t.Error("Expected error for table chart type")
		}
	})

	t.Run("EmptyResult", func(t *testing.T) {
		var buf bytes.Buffer
		empty := MockResultTable([]string{"a"}, nil)
		if err := RenderChartPNG(&buf, empty, ChartBar, "", "", ""); err == nil {
			t.Error("Expected error for empty result")
		}
	})
}
