package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tablesJSON bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the queryable tables with row counts",
	Run: func(cmd *cobra.Command, args []string) {
		db, cleanup, err := InitDB()
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		names, err := db.Tables()
		if err != nil {
			HandleError(err, "Failed to list tables")
		}

		ctx := context.Background()
		var stats []*TableStatsData
		for _, name := range names {
			s, err := db.Stats(ctx, name)
			if err != nil {
				HandleError(err, fmt.Sprintf("Failed to read stats for %q", name))
			}
			stats = append(stats, s)
		}

		if tablesJSON {
			printJSON(stats)
			return
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Table", "Rows", "Columns"})
		table.SetBorder(false)
		table.SetColumnSeparator("  ")
		for _, s := range stats {
			table.Append([]string{s.Table, strconv.FormatInt(s.RowCount, 10), strconv.Itoa(s.ColumnCount)})
		}
		table.Render()
	},
}

func init() {
	tablesCmd.Flags().BoolVar(&tablesJSON, "json", false, "Output as JSON instead of a table")
	rootCmd.AddCommand(tablesCmd)
}
