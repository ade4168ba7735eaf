package cmd

import (
	"context"
	"fmt"
	"os"
)

// TableColumn describes one column of a table (matches main.ColumnInfo)
type TableColumn struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableStatsData summarizes a table (matches main.TableStats)
type TableStatsData struct {
	Table       string   `json:"table"`
	RowCount    int64    `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	Columns     []string `json:"columns"`
}

// QueryResult holds rows returned by a query (matches main.ResultTable)
type QueryResult struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	Truncated bool            `json:"truncated"`
}

// HistoryItem is one persisted question/SQL pair
type HistoryItem struct {
	Question string `json:"question"`
	SQL      string `json:"sql"`
	RowCount int    `json:"row_count"`
	AskedAt  string `json:"asked_at"`
}

// AnswerData is the outcome of one natural language question
type AnswerData struct {
	Question  string       `json:"question"`
	SQL       string       `json:"sql"`
	Provider  string       `json:"provider"`
	Model     string       `json:"model"`
	Attempts  int          `json:"attempts"`
	Result    *QueryResult `json:"result"`
	ChartType string       `json:"chart_type"`
}

// ModelData is one selectable LLM model
type ModelData struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// DBInterface wraps database operations for CLI commands
type DBInterface interface {
	Tables() ([]string, error)
	TableSchema(table string) ([]TableColumn, error)
	Stats(ctx context.Context, table string) (*TableStatsData, error)
	SampleData(ctx context.Context, table string, limit int) (*QueryResult, error)
	ExecuteQuery(ctx context.Context, sql string) (*QueryResult, error)
	QueryHistory(limit int) ([]HistoryItem, error)
	Close() error
}

// AssistantInterface answers natural language questions with SQL
type AssistantInterface interface {
	Ask(ctx context.Context, question string) (*AnswerData, error)
}

// These variables are set by the main package
var (
	LaunchTUI     func()
	InitDB        func() (DBInterface, func(), error)
	InitAssistant func(db DBInterface) (AssistantInterface, error)
	StartServer   func(db DBInterface, port int) error
	ListModels    func(ctx context.Context, db DBInterface, provider string) ([]ModelData, error)
	SeedDatabase  func(db DBInterface) error
	ExportCSV     func(result *QueryResult, path string) error
)

// HandleError prints error and exits
func HandleError(err error, message string) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, err)
	os.Exit(1)
}
