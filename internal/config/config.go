package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppEnv string
	Port   string

	// Database: "sqlite" (default), "pgx" for Postgres, or "memory"
	DBDriver     string
	DBConnection string

	// AI chat completion endpoint; AIAPIKey is used when settings hold no key
	AIBaseURL string
	AIModel   string
	AIAPIKey  string

	// Observability (optional)
	SentryDSN string

	// Optional directory watched for favorites CSV files
	FavoritesImportDir string

	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() *Config {
	return &Config{
		AppEnv: envString("APP_ENV", "development"),
		Port:   envString("PORT", "8080"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/calzen.db"),

		AIBaseURL: envString("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:   envString("AI_MODEL", "deepseek/deepseek-r1-0528:free"),
		AIAPIKey:  envString("AI_API_KEY", ""),

		SentryDSN: envString("SENTRY_DSN", ""),

		FavoritesImportDir: envString("FAVORITES_IMPORT_DIR", ""),

		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GinReleaseMode reports whether gin should run in release mode. Defaults to
// true in production; GIN_RELEASE overrides.
func (c *Config) GinReleaseMode() bool {
	return envBool("GIN_RELEASE", c.IsProduction())
}
