// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session holds the authenticated admin session: the token and
// admin identity returned by the login API, persisted to durable
// key-value storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/mall-admin/internal/authclient"
	"github.com/olegiv/mall-admin/internal/kv"
	"github.com/olegiv/mall-admin/internal/model"
)

// Storage keys.
const (
	KeyToken = "admin_token"
	KeyAdmin = "admin_user"
)

// ErrEmptyToken is returned when the login API answers without a token.
var ErrEmptyToken = errors.New("login response carried no token")

// Authenticator exchanges credentials for a token and admin identity.
// *authclient.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*authclient.LoginResponse, error)
}

// Store is the session of one admin. Token and admin are always set
// together and cleared together.
type Store struct {
	storage kv.Storage
	auth    Authenticator
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
	admin *model.Admin
}

// New creates an empty store. Call Load to restore a persisted session.
func New(storage kv.Storage, auth Authenticator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: storage,
		auth:    auth,
		logger:  logger,
	}
}

// Load restores the session from storage. A half-written session (token
// without admin, admin without token, or an unreadable admin record) is
// discarded and its leftover entry removed.
func (s *Store) Load(ctx context.Context) error {
	token, tokenErr := s.storage.Get(ctx, KeyToken)
	if tokenErr != nil && !errors.Is(tokenErr, kv.ErrNotFound) {
		return fmt.Errorf("reading %s: %w", KeyToken, tokenErr)
	}
	rawAdmin, adminErr := s.storage.Get(ctx, KeyAdmin)
	if adminErr != nil && !errors.Is(adminErr, kv.ErrNotFound) {
		return fmt.Errorf("reading %s: %w", KeyAdmin, adminErr)
	}

	var admin *model.Admin
	if adminErr == nil {
		if err := json.Unmarshal([]byte(rawAdmin), &admin); err != nil {
			s.logger.Warn("discarding unreadable stored admin record", "error", err)
			admin = nil
		}
	}

	if tokenErr != nil || token == "" || admin == nil {
		if tokenErr == nil || adminErr == nil {
			s.logger.Warn("discarding incomplete stored session")
			s.removePersisted(ctx)
		}
		s.set("", nil)
		return nil
	}

	s.set(token, admin)
	return nil
}

// Login sends the credentials to the login API. On success the token and
// admin are stored in memory and in storage and true is returned. On
// failure the error is logged and returned and the session is untouched.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	resp, err := s.auth.Login(ctx, username, password)
	if err == nil && (resp == nil || resp.Token == "") {
		err = ErrEmptyToken
	}
	if err != nil {
		s.logger.Error("login failed", "username", username, "error", err)
		return false, err
	}

	admin := resp.Admin
	if admin == nil {
		admin = &model.Admin{}
	}

	// admin_user keeps the record exactly as the API sent it.
	encoded, err := adminRecord(resp)
	if err != nil {
		s.logger.Error("login failed", "username", username, "error", err)
		return false, fmt.Errorf("encoding admin record: %w", err)
	}

	if err := s.persist(ctx, resp.Token, string(encoded)); err != nil {
		s.logger.Error("login failed", "username", username, "error", err)
		return false, err
	}

	s.set(resp.Token, admin)
	s.logger.Info("admin logged in", "username", username, "admin_id", admin.ID)
	return true, nil
}

func adminRecord(resp *authclient.LoginResponse) ([]byte, error) {
	switch {
	case len(resp.AdminRaw) > 0:
		return resp.AdminRaw, nil
	case resp.Admin != nil:
		return json.Marshal(resp.Admin)
	default:
		return []byte("{}"), nil
	}
}

// Logout clears the session in memory and in storage. It never fails;
// storage errors are logged.
func (s *Store) Logout(ctx context.Context) {
	s.set("", nil)
	s.removePersisted(ctx)
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Admin returns a copy of the current admin identity, or nil.
func (s *Store) Admin() *model.Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return nil
	}
	a := *s.admin
	return &a
}

func (s *Store) set(token string, admin *model.Admin) {
	s.mu.Lock()
	s.token = token
	s.admin = admin
	s.mu.Unlock()
}

// persist writes both entries. If the second write fails the first is
// rolled back so storage never holds half a session.
func (s *Store) persist(ctx context.Context, token, admin string) error {
	prevToken, prevErr := s.storage.Get(ctx, KeyToken)

	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("persisting %s: %w", KeyToken, err)
	}
	if err := s.storage.Set(ctx, KeyAdmin, admin); err != nil {
		if prevErr == nil {
			_ = s.storage.Set(ctx, KeyToken, prevToken)
		} else {
			_ = s.storage.Remove(ctx, KeyToken)
		}
		return fmt.Errorf("persisting %s: %w", KeyAdmin, err)
	}
	return nil
}

func (s *Store) removePersisted(ctx context.Context) {
	for _, key := range []string{KeyToken, KeyAdmin} {
		if err := s.storage.Remove(ctx, key); err != nil {
			s.logger.Warn("removing stored session entry", "key", key, "error", err)
		}
	}
}
