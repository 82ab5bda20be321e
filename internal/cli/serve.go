package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	auditpg "sedeges/ms_hojas_ruta/internal/adapters/audit/postgres"
	backuppg "sedeges/ms_hojas_ruta/internal/adapters/backup/postgres"
	backups3 "sedeges/ms_hojas_ruta/internal/adapters/backup/s3"
	enviopg "sedeges/ms_hojas_ruta/internal/adapters/envio/postgres"
	hojarutapg "sedeges/ms_hojas_ruta/internal/adapters/hojaruta/postgres"
	adminhttp "sedeges/ms_hojas_ruta/internal/adapters/http/admin"
	enviohttp "sedeges/ms_hojas_ruta/internal/adapters/http/envio"
	healthhttp "sedeges/ms_hojas_ruta/internal/adapters/http/health"
	hojarutahttp "sedeges/ms_hojas_ruta/internal/adapters/http/hojaruta"
	notificacionhttp "sedeges/ms_hojas_ruta/internal/adapters/http/notificacion"
	notificacionpg "sedeges/ms_hojas_ruta/internal/adapters/notificacion/postgres"
	appbackup "sedeges/ms_hojas_ruta/internal/application/backup"
	appenvio "sedeges/ms_hojas_ruta/internal/application/envio"
	apphealth "sedeges/ms_hojas_ruta/internal/application/health"
	apphojaruta "sedeges/ms_hojas_ruta/internal/application/hojaruta"
	appnotificacion "sedeges/ms_hojas_ruta/internal/application/notificacion"
	corebackup "sedeges/ms_hojas_ruta/internal/core/backup"
	"sedeges/ms_hojas_ruta/internal/infrastructure/database"
	httpclient "sedeges/ms_hojas_ruta/internal/infrastructure/http"
	"sedeges/ms_hojas_ruta/internal/infrastructure/http/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := database.NewPool(ctx, databaseConfig(cfg.Database))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	log.Info("database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(ctx, pool, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	loc, err := time.LoadLocation(cfg.Dashboard.Location)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	hojaRepo := hojarutapg.NewRepository(pool, log)
	envioRepo := enviopg.NewRepository(pool, log)
	notificacionRepo := notificacionpg.NewRepository(pool, log)

	hojaService := apphojaruta.NewService(hojaRepo, envioRepo, apphojaruta.Options{
		Historial:    auditpg.NewRepository(pool, log),
		DashboardTTL: cfg.Dashboard.CacheTTL,
		Location:     loc,
	}, log)
	notificacionService := appnotificacion.NewService(notificacionRepo, log)
	envioService := appenvio.NewService(envioRepo, hojaService, notificacionService, log)

	checks := []apphealth.Check{{Name: "postgres", Probe: pool.Ping}}

	var storage corebackup.Storage
	if cfg.Backup.Enabled() {
		s3Storage, err := backups3.NewStorage(ctx, backups3.Config{
			Bucket:       cfg.Backup.Bucket,
			Region:       cfg.Backup.Region,
			Endpoint:     cfg.Backup.Endpoint,
			AccessKey:    cfg.Backup.AccessKey,
			SecretKey:    cfg.Backup.SecretKey,
			UsePathStyle: cfg.Backup.UsePathURL,
			HTTPClient:   httpclient.NewClient(&httpclient.ClientConfig{Timeout: cfg.HTTP.WriteTimeoutAdmin}),
		})
		if err != nil {
			return fmt.Errorf("create backup storage: %w", err)
		}
		storage = s3Storage
		checks = append(checks, apphealth.Check{Name: "s3", Probe: s3Storage.Ping})
		log.Info("backup archive storage enabled", "bucket", cfg.Backup.Bucket, "endpoint", cfg.Backup.Endpoint)
	} else {
		log.Info("backup archive storage disabled, backups are streamed to the caller")
	}

	backupService := appbackup.NewService(
		backuppg.NewDumper(pool, database.Tables, log),
		storage,
		appbackup.Options{Prefix: cfg.Backup.Prefix, URLTTL: cfg.Backup.URLTTL},
		log,
	)

	healthService := apphealth.NewService(apphealth.Metadata{
		Service:     cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	}, checks...)

	srv, err := server.New(server.Options{
		Config:        cfg,
		Logger:        log,
		HealthHandler: http.HandlerFunc(healthhttp.NewHandler(healthService).Status),
		API: []server.Routes{
			hojarutahttp.NewHandler(hojaService, log),
			enviohttp.NewHandler(envioService, log),
			notificacionhttp.NewHandler(notificacionService, log),
		},
		Admin: adminhttp.NewHandler(backupService, cfg.HTTP.MaxUploadSize, log),
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	log.Info("starting HTTP server", "port", cfg.HTTP.Port, "auth_enabled", cfg.Auth.Enabled)
	return srv.Run(ctx)
}
