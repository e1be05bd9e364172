package cmd

import (
	"github.com/abimdanu/openmusic-api/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the OpenMusic HTTP server",
	Long:  `Start the OpenMusic HTTP server serving the catalog, playlist and export APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
