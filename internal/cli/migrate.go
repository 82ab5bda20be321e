package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sedeges/ms_hojas_ruta/internal/infrastructure/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pool, err := database.NewPool(cmd.Context(), databaseConfig(cfg.Database))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			return database.RunMigrations(cmd.Context(), pool, log)
		},
	}
}
