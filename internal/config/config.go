// Package config loads the daemon's configuration from environment
// variables, with a .env file as an optional local override source.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the daemon configuration.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// MaxUpload caps request bodies in bytes.
	MaxUpload int64

	// TempDir stages uploaded documents; empty means the system default.
	TempDir string

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:     getEnvOrDefault("FOLIO_ADDR", ":8080"),
		TempDir:  getEnvOrDefault("FOLIO_TEMP_DIR", ""),
		LogLevel: getEnvOrDefault("FOLIO_LOG_LEVEL", "info"),
	}

	maxUpload, err := getEnvAsInt64OrDefault("FOLIO_MAX_UPLOAD", 32<<20)
	if err != nil {
		return nil, err
	}
	if maxUpload <= 0 {
		return nil, fmt.Errorf("FOLIO_MAX_UPLOAD must be positive, got %d", maxUpload)
	}
	cfg.MaxUpload = maxUpload

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt64OrDefault(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
