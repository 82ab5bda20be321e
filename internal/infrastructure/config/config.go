package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App       AppSettings
	HTTP      HTTPSettings
	Auth      AuthSettings
	Log       LogSettings
	Database  DatabaseSettings
	Backup    BackupSettings
	Dashboard DashboardSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Environment string
}

type HTTPSettings struct {
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	WriteTimeoutAdmin time.Duration // Extended timeout for backup and restore
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxUploadSize     int64
}

type AuthSettings struct {
	Enabled     bool
	IssuerURI   string
	JWKSetURI   string
	ClockSkew   time.Duration
	BypassPaths []string
	AdminRole   string
}

type LogSettings struct {
	Level string
}

type DatabaseSettings struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	RunMigrations   bool
}

// BackupSettings configures where database dumps are archived.
type BackupSettings struct {
	Bucket     string
	Region     string
	Endpoint   string // Custom S3 endpoint (LocalStack, MinIO). Empty uses AWS.
	AccessKey  string
	SecretKey  string
	Prefix     string
	URLTTL     time.Duration
	UsePathURL bool
}

// Enabled reports whether a bucket is configured.
func (b BackupSettings) Enabled() bool {
	return b.Bucket != ""
}

// DashboardSettings tunes the dashboard summary served to polling clients.
type DashboardSettings struct {
	CacheTTL time.Duration
	Location string // IANA zone used to decide what "today" is
}

// Load resolves the application configuration from environment variables.
// It first attempts to load variables from a .env file if it exists.
// Environment variables set in the system take precedence over .env file values.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg := AppConfig{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "ms_hojas_ruta"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Environment: getEnv("APP_ENV", "local"),
		},
		HTTP: HTTPSettings{
			Port:              getEnvAsInt("APP_PORT", 8080),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			WriteTimeoutAdmin: getEnvAsDuration("HTTP_WRITE_TIMEOUT_ADMIN", 5*time.Minute),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
			MaxUploadSize:     int64(getEnvAsInt("HTTP_MAX_UPLOAD_MB", 50)) << 20,
		},
		Auth: AuthSettings{
			Enabled:     getEnvAsBool("AUTH_ENABLED", true),
			IssuerURI:   strings.TrimSpace(os.Getenv("JWT_ISSUER_URI")),
			JWKSetURI:   strings.TrimSpace(os.Getenv("JWT_JWK_SET_URI")),
			ClockSkew:   getEnvAsDuration("AUTH_CLOCK_SKEW", 2*time.Minute),
			BypassPaths: getEnvAsCSV("AUTH_BYPASS_PATHS", []string{"/health"}),
			AdminRole:   getEnv("AUTH_ADMIN_ROLE", "admin"),
		},
		Log: LogSettings{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseSettings{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Database:        getEnv("DB_NAME", "sedeges"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			RunMigrations:   getEnvAsBool("DB_RUN_MIGRATIONS", true),
		},
		Backup: BackupSettings{
			Bucket:     strings.TrimSpace(os.Getenv("BACKUP_S3_BUCKET")),
			Region:     getEnv("BACKUP_S3_REGION", "us-east-1"),
			Endpoint:   strings.TrimSpace(os.Getenv("BACKUP_S3_ENDPOINT")),
			AccessKey:  strings.TrimSpace(os.Getenv("BACKUP_S3_ACCESS_KEY")),
			SecretKey:  strings.TrimSpace(os.Getenv("BACKUP_S3_SECRET_KEY")),
			Prefix:     getEnv("BACKUP_S3_PREFIX", "backups/"),
			URLTTL:     getEnvAsDuration("BACKUP_URL_TTL", 15*time.Minute),
			UsePathURL: getEnvAsBool("BACKUP_S3_PATH_STYLE", false),
		},
		Dashboard: DashboardSettings{
			CacheTTL: getEnvAsDuration("DASHBOARD_CACHE_TTL", 30*time.Second),
			Location: getEnv("DASHBOARD_TIMEZONE", "America/La_Paz"),
		},
	}

	if cfg.HTTP.MaxUploadSize <= 0 {
		return cfg, errors.New("invalid config: HTTP_MAX_UPLOAD_MB must be greater than 0")
	}

	if cfg.Dashboard.CacheTTL < 0 {
		return cfg, errors.New("invalid config: DASHBOARD_CACHE_TTL cannot be negative")
	}
	if _, err := time.LoadLocation(cfg.Dashboard.Location); err != nil {
		return cfg, fmt.Errorf("invalid config: DASHBOARD_TIMEZONE %q: %w", cfg.Dashboard.Location, err)
	}

	if cfg.Backup.Enabled() && (cfg.Backup.AccessKey == "") != (cfg.Backup.SecretKey == "") {
		return cfg, errors.New("invalid config: BACKUP_S3_ACCESS_KEY and BACKUP_S3_SECRET_KEY must be set together")
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURI == "" {
			return cfg, errors.New("invalid config: JWT_ISSUER_URI is required when AUTH_ENABLED=true")
		}
		if cfg.Auth.JWKSetURI == "" {
			return cfg, errors.New("invalid config: JWT_JWK_SET_URI is required when AUTH_ENABLED=true")
		}
	}

	return cfg, nil
}

// Address returns the HTTP listen address in host:port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsCSV(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
