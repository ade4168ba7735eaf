package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SchemaOutput represents the schema information for a table
type SchemaOutput struct {
	TableName   string        `json:"table_name"`
	ColumnCount int           `json:"column_count"`
	Columns     []TableColumn `json:"columns"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema [table]",
	Short: "Show the database schema",
	Long: `Show column information for all tables, or for a single table.

Examples:
  easysql schema
  easysql schema customers`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db, cleanup, err := InitDB()
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		var tables []string
		if len(args) == 1 {
			tables = []string{args[0]}
		} else {
			tables, err = db.Tables()
			if err != nil {
				HandleError(err, "Failed to list tables")
			}
		}

		schemas := make([]SchemaOutput, 0, len(tables))
		for _, tableName := range tables {
			cols, err := db.TableSchema(tableName)
			if err != nil {
				if len(args) == 1 {
					HandleError(err, fmt.Sprintf("Failed to inspect table %q", tableName))
				}
				continue
			}
			schemas = append(schemas, SchemaOutput{
				TableName:   tableName,
				ColumnCount: len(cols),
				Columns:     cols,
			})
		}

		printJSON(schemas)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
