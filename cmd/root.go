package cmd

import (
	"github.com/spf13/cobra"
)

// Flag overrides read by the main package during settings load.
var (
	FlagDBType   string
	FlagDBPath   string
	FlagProvider string
	FlagModel    string
)

var rootCmd = &cobra.Command{
	Use:   "easysql",
	Short: "EasySQL - Ask your database questions in plain language",
	Long: `EasySQL converts natural language questions into SQL, runs them
against your database and shows the results as tables and charts.

When run without commands, it launches an interactive TUI.
Use subcommands for CLI mode with table or JSON output.`,
	Run: func(cmd *cobra.Command, args []string) {
		// No subcommand specified - launch TUI
		LaunchTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&FlagDBType, "db-type", "", "Database backend: duckdb, sqlite, postgres or mysql")
	rootCmd.PersistentFlags().StringVar(&FlagDBPath, "db-path", "", "Path to the database file (duckdb/sqlite)")
	rootCmd.PersistentFlags().StringVar(&FlagProvider, "provider", "", "LLM provider: openai or anthropic")
	rootCmd.PersistentFlags().StringVar(&FlagModel, "model", "", "LLM model name")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
