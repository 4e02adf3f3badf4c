package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string // debug, info, warn, error

	// API server
	ServerAddr      string
	DataFile        string // document holding the latest analysis
	DatabaseURL     string // when set, the analysis is kept in PostgreSQL instead of DataFile
	CORSOrigins     string // Comma-separated allowed origins
	IngestRateLimit int    // submissions per minute per IP, 0 (default) disables

	// Viewer
	ViewerAddr   string
	APIBase      string        // base URL of the API, e.g. "https://dg-analyzer-api.example.com"
	CacheTTL     time.Duration // how long a fetched analysis is reused
	RedisURL     string        // optional shared cache, e.g. "redis://localhost:6379/0"
	SectionsFile string        // optional YAML overriding section candidate keys
	WarmInterval time.Duration // background refresh period, 0 disables

	// Site Branding
	SiteTitle string // env: SITE_TITLE, default: "DG Viewer"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ServerAddr:      getEnv("SERVER_ADDR", ":8000"),
		DataFile:        getEnv("DATA_FILE", "latest_governance.json"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		IngestRateLimit: getEnvInt("INGEST_RATE_LIMIT", 0),

		ViewerAddr:   getEnv("VIEWER_ADDR", ":8501"),
		APIBase:      getEnv("API_BASE", "http://localhost:8000"),
		CacheTTL:     getEnvDuration("CACHE_TTL", 10*time.Second),
		RedisURL:     getEnv("REDIS_URL", ""),
		SectionsFile: getEnv("SECTIONS_FILE", "sections.yaml"),
		WarmInterval: getEnvDuration("WARM_INTERVAL", 0),

		SiteTitle: getEnv("SITE_TITLE", "DG Viewer"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration parses values such as "30s" or "5m".
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// UsesDatabase reports whether the PostgreSQL store is configured.
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

// SlogLevel parses the configured log level string into an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
