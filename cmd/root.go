package cmd

import (
	"fmt"
	"os"

	"github.com/abimdanu/openmusic-api/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "openmusic",
	Short: "OpenMusic is a music catalog and playlist service.",
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
