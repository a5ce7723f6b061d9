package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hrportal/internal/platform/config"
	"hrportal/internal/platform/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}

		pool, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()

		applied, err := db.Migrate(cmd.Context(), pool, db.Migrations())
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			cmd.Println("database is up to date")
			return nil
		}
		for _, version := range applied {
			cmd.Println("applied", version)
		}
		return nil
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}
