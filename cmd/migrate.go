package cmd

import (
	"fmt"
	"log"

	"github.com/abimdanu/openmusic-api/config"
	"github.com/abimdanu/openmusic-api/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the OpenMusic database schema",
	Long:  `Connect to MySQL and create any missing OpenMusic tables, then exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		conn, err := db.Connect(cfg)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer conn.Close()

		if err := db.InitSchema(conn); err != nil {
			log.Fatalf("failed to create schema: %v", err)
		}
		fmt.Println("Database schema is up to date.")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
