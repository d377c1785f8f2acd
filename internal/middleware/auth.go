// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session loading,
// login protection and request hardening.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mall-admin/internal/kv"
	"github.com/olegiv/mall-admin/internal/model"
	"github.com/olegiv/mall-admin/internal/session"
)

// LoadSession creates middleware that restores the admin session for the
// request. Each browser's scs session is the durable storage of its own
// session.Store, which is injected into the request context. It must run
// inside sm.LoadAndSave.
func LoadSession(sm *scs.SessionManager, authn session.Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	storage := kv.NewSessionStorage(sm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := session.New(storage, authn, logger)
			if err := store.Load(r.Context()); err != nil {
				logger.Error("failed to load admin session", "error", err, "path", r.URL.Path)
			}

			next.ServeHTTP(w, r.WithContext(session.WithStore(r.Context(), store)))
		})
	}
}

// GetStore returns the session store of the request, or nil.
func GetStore(r *http.Request) *session.Store {
	return session.FromContext(r.Context())
}

// GetAdmin returns the signed-in admin, or nil.
func GetAdmin(r *http.Request) *model.Admin {
	if s := GetStore(r); s != nil && s.IsAuthenticated() {
		return s.Admin()
	}
	return nil
}
