package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	port     int
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP web server with HTMX interface.

The web server provides a browser-based assistant for asking questions
about your data, with charts, CSV export and JSON API endpoints.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the server on (default from EASYSQL_HTTP_PORT)")
}

func runServe() {
	db, cleanup, err := InitDB()
	if err != nil {
		HandleError(err, "Failed to initialize database")
	}
	defer cleanup()

	fmt.Printf("Starting EasySQL web server...\n")

	if err := StartServer(db, port); err != nil {
		log.Fatalf("Server failed: %v\n", err)
	}
}
