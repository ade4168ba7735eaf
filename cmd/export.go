package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportSQL string
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run a SQL query and write the result to a CSV file",
	Long: `Execute a SQL query and export the full result set as CSV.

Examples:
  easysql export --sql "SELECT * FROM orders" --out orders.csv
  easysql export --sql "SELECT category, SUM(price) FROM products GROUP BY category" --out revenue.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		db, cleanup, err := InitDB()
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		result, err := db.ExecuteQuery(context.Background(), exportSQL)
		if err != nil {
			HandleError(err, "Failed to execute query")
		}

		if err := ExportCSV(result, exportOut); err != nil {
			HandleError(err, "Failed to write CSV")
		}
		fmt.Printf("Wrote %d rows to %s\n", len(result.Rows), exportOut)
		if result.Truncated {
			fmt.Println("(result truncated by the row limit, raise EASYSQL_MAX_ROWS to export more)")
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSQL, "sql", "", "SQL query to execute (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output CSV path (required)")
	_ = exportCmd.MarkFlagRequired("sql")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
