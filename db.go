package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ColumnInfo describes a single column of a table.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableStats summarizes a table for the sidebar display.
type TableStats struct {
	Table       string   `json:"table"`
	RowCount    int64    `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	Columns     []string `json:"columns"`
}

// HistoryEntry is one persisted question/SQL pair.
type HistoryEntry struct {
	Question string    `json:"question"`
	SQL      string    `json:"sql"`
	RowCount int       `json:"row_count"`
	AskedAt  time.Time `json:"asked_at"`
}

// DB wraps a database/sql connection to one of the supported backends.
type DB struct {
	conn    *sql.DB
	driver  string
	maxRows int
}

// OpenDB opens the configured backend. File-backed databases (duckdb,
// sqlite) are created and seeded with sample data on first use.
func OpenDB(settings *Settings) (*DB, error) {
	driver, dsn, err := settings.DSN()
	if err != nil {
		return nil, err
	}

	needsSeed := false
	if settings.FileBacked() {
		if _, err := os.Stat(settings.DBPath); os.IsNotExist(err) {
			needsSeed = true
			if err := os.MkdirAll(filepath.Dir(settings.DBPath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open database", "error", err, "driver", driver)
		}
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	d := &DB{
		conn:    conn,
		driver:  driver,
		maxRows: settings.MaxRows,
	}

	if needsSeed {
		fmt.Println("📊 Creating sample database...")
		if err := SeedSampleData(d); err != nil {
			conn.Close()
			if logger != nil {
				logger.Error("Sample database seeding failed", "error", err, "db_path", settings.DBPath)
			}
			return nil, fmt.Errorf("failed to seed sample database: %w", err)
		}
		fmt.Println("✅ Sample database created!")
		if logger != nil {
			logger.Info("Sample database created", "db_path", settings.DBPath)
		}
	}

	// History table is optional; a read-only analytical database without
	// write permission still works.
	if err := d.createHistoryTable(); err != nil {
		if logger != nil {
			logger.Warn("Failed to create query history table", "error", err)
		}
	}

	return d, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// Driver returns the active database/sql driver name.
func (d *DB) Driver() string {
	return d.driver
}

// Ping verifies the connection is usable.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.conn.PingContext(ctx); err != nil {
		if logger != nil {
			logger.Error("Database ping failed", "error", err, "driver", d.driver)
		}
		return fmt.Errorf("database connection failed: %w", err)
	}
	return nil
}

// Tables returns the user table names of the connected database.
func (d *DB) Tables() ([]string, error) {
	var query string
	switch d.driver {
	case "sqlite":
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	case "mysql":
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name`
	case "pgx":
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name`
	default: // duckdb
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' AND table_type = 'BASE TABLE' ORDER BY table_name`
	}

	rows, err := d.conn.Query(query)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to list tables", "error", err, "driver", d.driver)
		}
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if name == historyTable || name == modelCacheTable {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableSchema returns column metadata for one table.
func (d *DB) TableSchema(table string) ([]ColumnInfo, error) {
	if d.driver == "sqlite" {
		return d.sqliteTableSchema(table)
	}

	var query string
	switch d.driver {
	case "mysql":
		query = `SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position`
	case "pgx":
		query = `SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position`
	default: // duckdb
		query = `SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = 'main' AND table_name = $1 ORDER BY ordinal_position`
	}

	rows, err := d.conn.Query(query, table)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to inspect table schema", "error", err, "table", table)
		}
		return nil, fmt.Errorf("failed to inspect table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		var nullable string
		if err := rows.Scan(&c.Name, &c.Type, &nullable); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		c.Nullable = strings.EqualFold(nullable, "YES")
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return cols, nil
}

func (d *DB) sqliteTableSchema(table string) ([]ColumnInfo, error) {
	rows, err := d.conn.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, d.quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var cid int
		var name, ctype string
		var notNull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		cols = append(cols, ColumnInfo{Name: name, Type: ctype, Nullable: notNull == 0})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return cols, nil
}

// SchemaInfo renders the whole schema as the text block handed to the LLM.
func (d *DB) SchemaInfo() (string, error) {
	tables, err := d.Tables()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, table := range tables {
		cols, err := d.TableSchema(table)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "Table: %s\n", table)
		for _, c := range cols {
			nullable := "NOT NULL"
			if c.Nullable {
				nullable = "NULL"
			}
			fmt.Fprintf(&b, "  - %s (%s) %s\n", c.Name, strings.ToUpper(c.Type), nullable)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// ExecuteQuery runs a read query and returns the result table. The row
// count is capped at the configured maximum.
func (d *DB) ExecuteQuery(ctx context.Context, query string) (*ResultTable, error) {
	rows, err := d.conn.QueryContext(ctx, query)
	if err != nil {
		if logger != nil {
			logger.Error("Query execution failed", "error", err, "sql_preview", truncateString(query, 150))
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	table := &ResultTable{Columns: columns}
	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range columns {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		row := make([]interface{}, len(columns))
		for i, v := range values {
			row[i] = normalizeValue(v)
		}
		table.Rows = append(table.Rows, row)
		if d.maxRows > 0 && len(table.Rows) >= d.maxRows {
			// Only flag truncation when a row was actually cut off.
			if rows.Next() {
				table.Truncated = true
			}
			break
		}
	}
	if err := rows.Err(); err != nil {
		if logger != nil {
			logger.Error("Row iteration error", "error", err, "rows_read", len(table.Rows))
		}
		return nil, err
	}

	return table, nil
}

// SampleData returns up to limit rows from a table.
func (d *DB) SampleData(ctx context.Context, table string, limit int) (*ResultTable, error) {
	if limit <= 0 {
		limit = 5
	}
	// Validate against the catalog before interpolating the identifier.
	if _, err := d.TableSchema(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", d.quoteIdent(table), limit)
	return d.ExecuteQuery(ctx, query)
}

// Stats returns row and column counts for a table.
func (d *DB) Stats(ctx context.Context, table string) (*TableStats, error) {
	cols, err := d.TableSchema(table)
	if err != nil {
		return nil, err
	}

	stats := &TableStats{Table: table, ColumnCount: len(cols)}
	for _, c := range cols {
		stats.Columns = append(stats.Columns, c.Name)
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.quoteIdent(table))
	if err := d.conn.QueryRowContext(ctx, query).Scan(&stats.RowCount); err != nil {
		if logger != nil {
			logger.Error("Failed to count table rows", "error", err, "table", table)
		}
		return nil, fmt.Errorf("failed to count rows of %q: %w", table, err)
	}
	return stats, nil
}

const historyTable = "query_history"

func (d *DB) createHistoryTable() error {
	_, err := d.conn.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			question VARCHAR(2000),
			sql_text VARCHAR(4000),
			row_count INTEGER,
			asked_at TIMESTAMP
		)
	`, historyTable))
	return err
}

// SaveQueryHistory persists one executed question/SQL pair. Failures are
// reported to the caller but are never fatal to the request path.
func (d *DB) SaveQueryHistory(question, sqlText string, rowCount int) error {
	return d.saveQueryHistoryAt(question, sqlText, rowCount, time.Now().UTC())
}

func (d *DB) saveQueryHistoryAt(question, sqlText string, rowCount int, askedAt time.Time) error {
	query := fmt.Sprintf(`INSERT INTO %s (question, sql_text, row_count, asked_at) VALUES (%s, %s, %s, %s)`,
		historyTable, d.placeholder(1), d.placeholder(2), d.placeholder(3), d.placeholder(4))
	if _, err := d.conn.Exec(query, question, sqlText, rowCount, askedAt); err != nil {
		if logger != nil {
			logger.Warn("Failed to save query history", "error", err)
		}
		return fmt.Errorf("failed to save query history: %w", err)
	}
	return nil
}

// QueryHistory returns the most recent history entries, newest first.
func (d *DB) QueryHistory(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT question, sql_text, row_count, asked_at FROM %s ORDER BY asked_at DESC LIMIT %d`,
		historyTable, limit)

	rows, err := d.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var rowCount sql.NullInt64
		if err := rows.Scan(&e.Question, &e.SQL, &rowCount, &e.AskedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.RowCount = int(rowCount.Int64)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// quoteIdent quotes an identifier for the active backend.
func (d *DB) quoteIdent(name string) string {
	if d.driver == "mysql" {
		return "`" + strings.ReplaceAll(name, "`", "") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, "") + `"`
}

// placeholder returns the bind placeholder for position i.
func (d *DB) placeholder(i int) string {
	if d.driver == "pgx" || d.driver == "duckdb" {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// normalizeValue maps driver-specific values onto the small set of types
// the chart and table layers understand.
func normalizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case []byte:
		return string(value)
	case int:
		return int64(value)
	case int32:
		return int64(value)
	case float32:
		return float64(value)
	default:
		return v
	}
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
