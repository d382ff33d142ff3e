package cmd

import (
	"fmt"
	"os"

	"tuneport/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tuneport",
	Short: "tuneport is the release submission backend of the label portal.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
