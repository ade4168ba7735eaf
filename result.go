package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// ColumnKind classifies a result column by the values it holds.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindTime
	KindBool
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

// ResultTable holds the rows returned by one query execution.
type ResultTable struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	Truncated bool            `json:"truncated"`
}

func (t *ResultTable) RowCount() int {
	return len(t.Rows)
}

func (t *ResultTable) ColumnCount() int {
	return len(t.Columns)
}

func (t *ResultTable) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnKinds classifies every column by inspecting its values. A column
// with no non-nil values classifies as text.
func (t *ResultTable) ColumnKinds() []ColumnKind {
	kinds := make([]ColumnKind, len(t.Columns))
	for i := range t.Columns {
		kinds[i] = t.columnKind(i)
	}
	return kinds
}

func (t *ResultTable) columnKind(col int) ColumnKind {
	for _, row := range t.Rows {
		if col >= len(row) || row[col] == nil {
			continue
		}
		switch row[col].(type) {
		case int64, float64:
			return KindNumber
		case time.Time:
			return KindTime
		case bool:
			return KindBool
		default:
			return KindText
		}
	}
	return KindText
}

// NumericColumns returns the indexes of numeric columns in order.
func (t *ResultTable) NumericColumns() []int {
	var idx []int
	for i, kind := range t.ColumnKinds() {
		if kind == KindNumber {
			idx = append(idx, i)
		}
	}
	return idx
}

// Float64At reads a cell as float64. Non-numeric cells return 0, false.
func (t *ResultTable) Float64At(row, col int) (float64, bool) {
	if row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return 0, false
	}
	switch v := t.Rows[row][col].(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// StringAt reads a cell formatted for display. NULL renders as empty.
func (t *ResultTable) StringAt(row, col int) string {
	if row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return formatCell(t.Rows[row][col])
}

// ColumnIndex returns the index of a named column, or -1.
func (t *ResultTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnSummary aggregates one numeric column of a result.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes sum, average, min and max for every numeric column
// that holds at least two values. Single-row results return nothing
// since the row already is its own summary.
func (t *ResultTable) Summarize() []ColumnSummary {
	if t == nil || t.RowCount() < 2 {
		return nil
	}
	var summaries []ColumnSummary
	for _, col := range t.NumericColumns() {
		s := ColumnSummary{Column: t.Columns[col]}
		for i := range t.Rows {
			v, ok := t.Float64At(i, col)
			if !ok {
				continue
			}
			if s.Count == 0 || v < s.Min {
				s.Min = v
			}
			if s.Count == 0 || v > s.Max {
				s.Max = v
			}
			s.Sum += v
			s.Count++
		}
		if s.Count < 2 {
			continue
		}
		s.Avg = s.Sum / float64(s.Count)
		summaries = append(summaries, s)
	}
	return summaries
}

// WriteCSV streams the table as CSV, header row first.
func (t *ResultTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i := range t.Rows {
		for j := range t.Columns {
			record[j] = t.StringAt(i, j)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		// Whole floats print without a decimal point, matching the
		// way counts come back from aggregate queries.
		if value == float64(int64(value)) && value < 1e15 && value > -1e15 {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		if value.Hour() == 0 && value.Minute() == 0 && value.Second() == 0 {
			return value.Format("2006-01-02")
		}
		return value.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", value)
	}
}
