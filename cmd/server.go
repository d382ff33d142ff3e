package cmd

import (
	"tuneport/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the tuneport HTTP server",
	Long:  `Start the HTTP API that backs the artist portal: release wizard, drafts, uploads, contracts and moderation.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
