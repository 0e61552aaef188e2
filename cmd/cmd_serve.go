package main

import (
	"github.com/spf13/cobra"

	"auction_scout/internal/application"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with background refresh",
	Long: `Start the long-running mode: HTTP API, probes, metrics and the
scheduled refresh of stale products. Stops on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return application.Run(cmd.Context())
}
