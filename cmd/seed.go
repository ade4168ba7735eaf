package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or reset the sample e-commerce database",
	Long: `Create the sample database with customers, products, orders and
order_items tables. Existing sample tables are dropped and rebuilt.`,
	Run: func(cmd *cobra.Command, args []string) {
		db, cleanup, err := InitDB()
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		if err := SeedDatabase(db); err != nil {
			HandleError(err, "Failed to seed sample data")
		}
		fmt.Println("Sample database ready.")
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
