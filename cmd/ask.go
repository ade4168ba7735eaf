package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askJSON bool
	askCSV  string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question in plain language",
	Long: `Convert a natural language question into SQL, run it and print
the results. Failed queries are retried with the database error fed
back to the model.

Requires OPENAI_API_KEY or ANTHROPIC_API_KEY depending on the
configured provider.

Examples:
  easysql ask "top 10 customers by total order amount"
  easysql ask "average order value by country" --json
  easysql ask "monthly sales" --csv sales.csv`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")

		db, cleanup, err := InitDB()
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		assistant, err := InitAssistant(db)
		if err != nil {
			HandleError(err, "Failed to initialize assistant")
		}

		answer, err := assistant.Ask(context.Background(), question)
		if err != nil {
			HandleError(err, "Failed to answer question")
		}

		if askCSV != "" {
			if err := ExportCSV(answer.Result, askCSV); err != nil {
				HandleError(err, "Failed to write CSV")
			}
			fmt.Printf("Wrote %d rows to %s\n", len(answer.Result.Rows), askCSV)
			return
		}

		if askJSON {
			printJSON(answer)
			return
		}

		fmt.Printf("SQL: %s\n\n", answer.SQL)
		renderResult(os.Stdout, answer.Result)
	},
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Output as JSON instead of a table")
	askCmd.Flags().StringVar(&askCSV, "csv", "", "Write the result to a CSV file")
	rootCmd.AddCommand(askCmd)
}
