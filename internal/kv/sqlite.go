// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/olegiv/mall-admin/internal/store"
)

// SQLiteStorage persists entries in the kv_entries table.
type SQLiteStorage struct {
	db      *sql.DB
	queries *store.Queries
	ownsDB  bool
	closed  atomic.Bool
}

// NewSQLiteStorage wraps an already migrated database. Closing the
// storage leaves db open.
func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db, queries: store.New(db)}
}

// OpenSQLiteStorage opens (creating if needed) and migrates the database
// at path. Closing the storage closes the database.
func OpenSQLiteStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}

	db, err := store.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := NewSQLiteStorage(db)
	s.ownsDB = true
	return s, nil
}

// Get retrieves a value.
func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}

	val, err := s.queries.GetKVEntry(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value.
func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	if err := s.queries.UpsertKVEntry(ctx, store.UpsertKVEntryParams{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Remove deletes a key.
func (s *SQLiteStorage) Remove(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	if err := s.queries.DeleteKVEntry(ctx, key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Close closes the database if the storage opened it.
func (s *SQLiteStorage) Close() error {
	if s.closed.Swap(true) || !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
