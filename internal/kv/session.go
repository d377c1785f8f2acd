// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kv

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// SessionStorage stores entries in the scs session attached to the
// request context, giving each browser its own durable storage. The
// context passed to every call must come from a request that went
// through SessionManager.LoadAndSave.
type SessionStorage struct {
	sm *scs.SessionManager
}

// NewSessionStorage creates a storage view over sm.
func NewSessionStorage(sm *scs.SessionManager) *SessionStorage {
	return &SessionStorage{sm: sm}
}

// Get retrieves a value from the current session.
func (s *SessionStorage) Get(ctx context.Context, key string) (string, error) {
	if !s.sm.Exists(ctx, key) {
		return "", ErrNotFound
	}
	return s.sm.GetString(ctx, key), nil
}

// Set stores a value in the current session.
func (s *SessionStorage) Set(ctx context.Context, key, value string) error {
	s.sm.Put(ctx, key, value)
	return nil
}

// Remove deletes a key from the current session.
func (s *SessionStorage) Remove(ctx context.Context, key string) error {
	s.sm.Remove(ctx, key)
	return nil
}
