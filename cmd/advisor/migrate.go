package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abekenov/product-advisor/internal/config"
	"github.com/abekenov/product-advisor/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromViper()
			if err != nil {
				return err
			}

			store, err := storage.NewSQLiteStorage(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer closeStorage(store)

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			slog.Info("Migrations applied", "path", cfg.Database.Path, "schema_version", storage.ExpectedSchemaVersion)
			return nil
		},
	}
}
