package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(cfg *config.Config, _ *gorm.DB) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", cfg.Database.Driver)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
