// Package config loads server configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs to start.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database file path.
	DBPath string `yaml:"db_path"`

	// JWTSecret signs session tokens. Required; there is no insecure default.
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Load builds the config from defaults, then the YAML file named by
// TRIPSPLIT_CONFIG (if set), then environment variables. Later sources win.
func Load() (Config, error) {
	cfg := Config{
		Addr:     ":8080",
		DBPath:   "./data/tripsplit.db",
		TokenTTL: 24 * time.Hour,
		LogLevel: "info",
	}

	if path := os.Getenv("TRIPSPLIT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("jwt secret required (set JWT_SECRET or jwt_secret in the config file)")
	}
	return cfg, nil
}
