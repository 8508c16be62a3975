package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Port  string
	Debug bool

	// Database
	DBDriver       string // "postgres" or "sqlite"
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	SessionSecret  string
	RequestTimeout time.Duration

	// Pagination
	DefaultPageLimit int
	MaxPageLimit     int

	// 列表缓存有效期，0 表示关闭
	ListCacheTTL time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),

		SessionSecret:  getEnv("SESSION_SECRET", "secret_key_change_me"),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),

		DefaultPageLimit: getIntEnv("DEFAULT_PAGE_LIMIT", 10),
		MaxPageLimit:     getIntEnv("MAX_PAGE_LIMIT", 100),

		ListCacheTTL: getDurationEnv("LIST_CACHE_TTL", 30*time.Second),
	}

	if cfg.DatabaseURL == "" {
		// Fallback for local dev if not set
		if cfg.DBDriver == "sqlite" {
			cfg.DatabaseURL = "leanfeed.db"
		} else {
			cfg.DatabaseURL = "host=localhost user=postgres password=postgres dbname=leanfeed port=5432 sslmode=disable TimeZone=UTC"
		}
	}
	if cfg.DefaultPageLimit < 1 {
		cfg.DefaultPageLimit = 10
	}
	if cfg.MaxPageLimit < cfg.DefaultPageLimit {
		cfg.MaxPageLimit = cfg.DefaultPageLimit
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
