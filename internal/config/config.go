// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"your_super_secret_key_change_this_in_production",
}

// Storage backends understood by kv.New.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds the application configuration loaded from environment variables.
// The console, the login API and adminctl share it; each binary validates
// only the secrets it needs.
type Config struct {
	// APIURL is the base URL of the backend API, without a trailing slash.
	APIURL string `env:"MALL_API_URL" envDefault:"http://localhost:8080/api"`

	ServerHost string `env:"MALL_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"MALL_SERVER_PORT" envDefault:"5173"`
	APIHost    string `env:"MALL_API_HOST" envDefault:"localhost"`
	APIPort    int    `env:"MALL_API_PORT" envDefault:"8080"`
	Env        string `env:"MALL_ENV" envDefault:"development"`
	LogLevel   string `env:"MALL_LOG_LEVEL" envDefault:"info"`

	SessionSecret string        `env:"MALL_SESSION_SECRET"`
	JWTSecret     string        `env:"MALL_JWT_SECRET"`
	TokenTTL      time.Duration `env:"MALL_TOKEN_TTL" envDefault:"24h"`

	DBPath string `env:"MALL_DB_PATH" envDefault:"./data/mall-admin.db"`

	// adminctl storage
	Storage       string `env:"MALL_STORAGE" envDefault:"sqlite"`
	StoragePath   string `env:"MALL_STORAGE_PATH" envDefault:"./data/adminctl.db"`
	RedisURL      string `env:"MALL_REDIS_URL"`
	StoragePrefix string `env:"MALL_STORAGE_PREFIX" envDefault:"mall-admin:"`

	// StorageFallback switches to in-memory storage when Redis is unreachable.
	StorageFallback bool `env:"MALL_STORAGE_FALLBACK" envDefault:"false"`

	// Seeding configuration
	DoSeed        bool   `env:"MALL_DO_SEED" envDefault:"false"`
	AdminPassword string `env:"MALL_ADMIN_PASSWORD" envDefault:"changeme"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the console address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// APIAddr returns the login API address in host:port format.
func (c Config) APIAddr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
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

// MinSecretLength is the minimum required length for session and JWT secrets.
const MinSecretLength = 32

// Load parses environment variables and returns a Config struct.
// Secrets are not validated; use LoadConsole or LoadAPI for that.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	switch cfg.Storage {
	case StorageMemory, StorageSQLite, StorageRedis:
	default:
		return nil, fmt.Errorf("MALL_STORAGE must be one of %s, %s, %s; got %q",
			StorageMemory, StorageSQLite, StorageRedis, cfg.Storage)
	}
	if cfg.Storage == StorageRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("MALL_REDIS_URL is required when MALL_STORAGE=%s", StorageRedis)
	}

	return cfg, nil
}

// LoadConsole loads the configuration and validates the console session secret.
func LoadConsole() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := validateSecret("MALL_SESSION_SECRET", cfg.SessionSecret); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAPI loads the configuration and validates the token signing secret.
func LoadAPI() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := validateSecret("MALL_JWT_SECRET", cfg.JWTSecret); err != nil {
		return nil, err
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("MALL_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

func validateSecret(name, secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("%s must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			name, MinSecretLength, len(secret))
	}

	for _, weak := range knownWeakSecrets {
		if secret == weak {
			return fmt.Errorf("%s is a known default value and must not be used; "+
				"generate a secure secret with: openssl rand -base64 32", name)
		}
	}

	if !hasMinimumEntropy(secret) {
		slog.Warn(name + " has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
