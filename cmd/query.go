package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	queryString string
	queryJSON   bool
	exportPath  string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Execute a SQL query against the database",
	Long: `Execute the requested SQL query directly, without LLM translation.

Examples:
  easysql query --sql "SELECT * FROM customers LIMIT 5"
  easysql query --sql "SELECT COUNT(*) AS total FROM orders" --json
  easysql query --sql "SELECT * FROM products" --csv products.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		if queryString == "" {
			HandleError(fmt.Errorf("query is required"), "Missing query parameter")
		}

		db, cleanup, err := InitDB()
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		result, err := db.ExecuteQuery(context.Background(), queryString)
		if err != nil {
			HandleError(err, "Failed to execute query")
		}

		if exportPath != "" {
			if err := ExportCSV(result, exportPath); err != nil {
				HandleError(err, "Failed to write CSV")
			}
			fmt.Printf("Wrote %d rows to %s\n", len(result.Rows), exportPath)
			return
		}

		if queryJSON {
			printJSON(result)
			return
		}
		renderResult(os.Stdout, result)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryString, "sql", "q", "", "SQL query to execute (required)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output as JSON instead of a table")
	queryCmd.Flags().StringVar(&exportPath, "csv", "", "Write the result to a CSV file")
	_ = queryCmd.MarkFlagRequired("sql")
	rootCmd.AddCommand(queryCmd)
}

func printJSON(v interface{}) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		HandleError(err, "Failed to encode JSON")
	}
	fmt.Println(string(output))
}

// renderResult prints a query result as an aligned text table
func renderResult(w io.Writer, result *QueryResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(result.Columns)
	table.SetBorder(false)
	table.SetColumnSeparator("  ")

	for _, row := range result.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			if cell == nil {
				record[i] = ""
			} else {
				record[i] = fmt.Sprintf("%v", cell)
			}
		}
		table.Append(record)
	}
	table.Render()

	if result.Truncated {
		fmt.Fprintln(w, "(result truncated)")
	}
	fmt.Fprintf(w, "%d rows\n", len(result.Rows))
}
