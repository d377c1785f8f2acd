// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIURL != "http://localhost:8080/api" {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, "http://localhost:8080/api")
	}
	if cfg.ServerAddr() != "localhost:5173" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:5173")
	}
	if cfg.APIAddr() != "localhost:8080" {
		t.Errorf("APIAddr() = %q, want %q", cfg.APIAddr(), "localhost:8080")
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageSQLite)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.StoragePrefix != "mall-admin:" {
		t.Errorf("StoragePrefix = %q, want %q", cfg.StoragePrefix, "mall-admin:")
	}
	if cfg.StorageFallback {
		t.Error("StorageFallback = true, want false")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MALL_API_URL", "https://shop.example.com/api/")
	setEnv(t, "MALL_SERVER_HOST", "0.0.0.0")
	setEnv(t, "MALL_SERVER_PORT", "3000")
	setEnv(t, "MALL_ENV", "production")
	setEnv(t, "MALL_LOG_LEVEL", "debug")
	setEnv(t, "MALL_STORAGE", "memory")
	setEnv(t, "MALL_TOKEN_TTL", "2h")
	setEnv(t, "MALL_STORAGE_FALLBACK", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIURL != "https://shop.example.com/api" {
		t.Errorf("APIURL = %q, want trailing slash trimmed", cfg.APIURL)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageMemory)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %v, want 2h", cfg.TokenTTL)
	}
	if !cfg.StorageFallback {
		t.Error("StorageFallback = false, want true")
	}
}

func TestLoad_InvalidStorage(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MALL_STORAGE", "localstorage")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail for unknown storage backend")
	}
}

func TestLoad_RedisStorageRequiresURL(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MALL_STORAGE", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when MALL_REDIS_URL is missing")
	}

	setEnv(t, "MALL_REDIS_URL", "redis://localhost:6379/0")
	if _, err := Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
}

func TestLoadConsole_SessionSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"empty", "", true},
		{"short", "short", true},
		{"31_bytes", "1234567890123456789012345678901", true},
		{"known_weak", "change-me-to-32-byte-secret-key!", true},
		{"32_bytes", "12345678901234567890123456789012", false},
		{"strong", testSecret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "MALL_SESSION_SECRET", tt.secret)

			cfg, err := LoadConsole()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadConsole() should fail with %q", tt.secret)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConsole() error: %v", err)
			}
			if cfg.SessionSecret != tt.secret {
				t.Errorf("SessionSecret = %q, want %q", cfg.SessionSecret, tt.secret)
			}
		})
	}
}

func TestLoadAPI_JWTSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MALL_SESSION_SECRET", testSecret)

	if _, err := LoadAPI(); err == nil {
		t.Fatal("LoadAPI() should fail without MALL_JWT_SECRET")
	}

	setEnv(t, "MALL_JWT_SECRET", testSecret)
	cfg, err := LoadAPI()
	if err != nil {
		t.Fatalf("LoadAPI() error: %v", err)
	}
	if cfg.JWTSecret != testSecret {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, testSecret)
	}
}

func TestLoadAPI_NonPositiveTTL(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MALL_JWT_SECRET", testSecret)
	setEnv(t, "MALL_TOKEN_TTL", "0s")

	if _, err := LoadAPI(); err == nil {
		t.Fatal("LoadAPI() should fail with zero TTL")
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	if hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Error("single character class should not pass")
	}
	if !hasMinimumEntropy("abcABC123") {
		t.Error("three character classes should pass")
	}
}
