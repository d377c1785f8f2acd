// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kv provides the durable key-value storage the session store
// persists into: an in-memory map, a SQLite table, Redis, or the scs
// session of the current HTTP request.
package kv

import "context"

// Storage is a string key-value store with get/set/remove semantics.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Closer is implemented by backends that hold connections.
type Closer interface {
	Close() error
}

// Error represents an error type for storage operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound indicates the key is not present.
	ErrNotFound Error = "kv: key not found"

	// ErrClosed indicates the storage has been closed.
	ErrClosed Error = "kv: storage closed"
)

// Close closes s if it holds resources.
func Close(s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
