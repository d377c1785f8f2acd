// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"fmt"
	"log/slog"
)

// Backend types accepted by New.
const (
	TypeMemory = "memory"
	TypeSQLite = "sqlite"
	TypeRedis  = "redis"
)

// Config holds configuration for storage creation.
type Config struct {
	// Type is the backend: "memory", "sqlite" or "redis".
	Type string

	// Path is the SQLite database file (sqlite only).
	Path string

	// RedisURL is the Redis connection URL (redis only).
	RedisURL string

	// Prefix is the Redis key prefix (redis only).
	Prefix string

	// FallbackToMemory makes New return a memory storage when Redis is
	// unreachable instead of failing.
	FallbackToMemory bool
}

// Info describes the storage New actually created.
type Info struct {
	Type       string
	IsFallback bool
}

// New creates a storage for cfg.
func New(cfg Config) (Storage, Info, error) {
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemoryStorage(), Info{Type: TypeMemory}, nil

	case TypeSQLite:
		s, err := OpenSQLiteStorage(cfg.Path)
		if err != nil {
			return nil, Info{}, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return s, Info{Type: TypeSQLite}, nil

	case TypeRedis:
		opts := DefaultRedisOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		s, err := NewRedisStorage(opts)
		if err != nil {
			if cfg.FallbackToMemory {
				slog.Warn("redis storage unavailable, falling back to memory", "error", err)
				return NewMemoryStorage(), Info{Type: TypeMemory, IsFallback: true}, nil
			}
			return nil, Info{}, fmt.Errorf("connecting to redis: %w", err)
		}
		return s, Info{Type: TypeRedis}, nil

	default:
		return nil, Info{}, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
