// Package cli implements the ms_hojas_ruta command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"sedeges/ms_hojas_ruta/internal/infrastructure/config"
	"sedeges/ms_hojas_ruta/internal/infrastructure/database"
	"sedeges/ms_hojas_ruta/internal/infrastructure/logger"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ms_hojas_ruta",
		Short:         "SEDEGES routing-slip service",
		Long:          "Tracks paper routing slips (hojas de ruta) as they move between organizational units.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newPreviewCmd())
	return root
}

// loadConfig resolves configuration and the logger every server-side command
// needs.
func loadConfig() (config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment), nil
}

func databaseConfig(cfg config.DatabaseSettings) database.Config {
	return database.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Database:        cfg.Database,
		User:            cfg.User,
		Password:        cfg.Password,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}
