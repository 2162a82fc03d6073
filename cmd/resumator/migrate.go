package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/figuedmundo/resumator-sub003/internal/config"
	"github.com/figuedmundo/resumator-sub003/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply all pending schema migrations to the configured PostgreSQL database.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if err := db.Migrate(cmd.Context(), cfg.DatabaseURL); err != nil {
		return err
	}
	fmt.Println("migrations applied")
	return nil
}
