package cmd

import (
	"context"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	modelsProvider string
	modelsJSON     bool
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the LLM models available for a provider",
	Long: `List model names for the chosen provider. The catalog is fetched
from the provider API and cached; without an API key a built-in
fallback list is shown.

Examples:
  easysql models
  easysql models --llm-provider anthropic`,
	Run: func(cmd *cobra.Command, args []string) {
		db, cleanup, err := InitDB()
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		models, err := ListModels(context.Background(), db, modelsProvider)
		if err != nil {
			HandleError(err, "Failed to list models")
		}

		if modelsJSON {
			printJSON(models)
			return
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Model", "Provider"})
		table.SetBorder(false)
		table.SetColumnSeparator("  ")
		for _, m := range models {
			table.Append([]string{m.ID, m.Provider})
		}
		table.Render()
	},
}

func init() {
	modelsCmd.Flags().StringVar(&modelsProvider, "llm-provider", "openai", "Provider to list models for: openai or anthropic")
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "Output as JSON instead of a table")
	rootCmd.AddCommand(modelsCmd)
}
