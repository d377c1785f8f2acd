// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStorage is a thread-safe in-memory Storage. Contents are lost
// when the process exits.
type MemoryStorage struct {
	data   sync.Map
	closed atomic.Bool
}

// NewMemoryStorage creates an empty memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Get retrieves a value.
func (s *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}

	val, ok := s.data.Load(key)
	if !ok {
		return "", ErrNotFound
	}
	return val.(string), nil
}

// Set stores a value.
func (s *MemoryStorage) Set(_ context.Context, key, value string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.data.Store(key, value)
	return nil
}

// Remove deletes a key.
func (s *MemoryStorage) Remove(_ context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.data.Delete(key)
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStorage) Len() int {
	n := 0
	s.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close marks the storage as closed and drops its contents.
func (s *MemoryStorage) Close() error {
	s.closed.Store(true)
	s.data.Clear()
	return nil
}
