// Package config loads dashboard-server settings from the environment.
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

// Store backends accepted by DASHBOARD_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	Addr          string
	Environment   string
	BasePath      string
	Store         string
	StoreDir      string
	RedisURL      string
	RedisChannel  string
	ManifestDir   string
	AnalyticsURL  string
	AnalyticsKey  string
	DataCacheTTL  time.Duration
	StrictConfig  bool
	InitialLayout string
	MetricsPath   string
	AdminAddr     string
}

// Load reads an optional .env file (or the files named in paths) and the DASHBOARD_*
// variables. A missing .env file is not an error.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("DASHBOARD_DATA_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("config: DASHBOARD_DATA_CACHE_TTL: %w", err)
	}
	strict, err := strconv.ParseBool(getEnv("DASHBOARD_STRICT_CONFIG", "false"))
	if err != nil {
		return nil, fmt.Errorf("config: DASHBOARD_STRICT_CONFIG: %w", err)
	}

	cfg := &Config{
		Addr:          getEnv("DASHBOARD_ADDR", ":8080"),
		Environment:   getEnv("DASHBOARD_ENV", "development"),
		BasePath:      getEnv("DASHBOARD_BASE_PATH", "/api"),
		Store:         strings.ToLower(getEnv("DASHBOARD_STORE", StoreMemory)),
		StoreDir:      getEnv("DASHBOARD_STORE_DIR", "./data"),
		RedisURL:      getEnv("DASHBOARD_REDIS_URL", "redis://localhost:6379/0"),
		RedisChannel:  getEnv("DASHBOARD_REDIS_CHANNEL", "events"),
		ManifestDir:   getEnv("DASHBOARD_MANIFEST_DIR", ""),
		AnalyticsURL:  getEnv("DASHBOARD_ANALYTICS_URL", ""),
		AnalyticsKey:  getEnv("DASHBOARD_ANALYTICS_KEY", ""),
		DataCacheTTL:  ttl,
		StrictConfig:  strict,
		InitialLayout: getEnv("DASHBOARD_INITIAL_LAYOUT", "overview"),
		MetricsPath:   getEnv("DASHBOARD_METRICS_PATH", "/metrics"),
		AdminAddr:     getEnv("DASHBOARD_ADMIN_ADDR", ":9090"),
	}
	switch cfg.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return nil, fmt.Errorf("config: unknown DASHBOARD_STORE %q", cfg.Store)
	}
	return cfg, nil
}

// Production reports whether the server runs with production logging.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
