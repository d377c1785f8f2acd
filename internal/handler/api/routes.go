// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/mall-admin/internal/handler"
	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/token"
)

// Route paths.
const (
	RouteLogin  = "/api/auth/admin/login"
	RouteMe     = "/api/auth/admin/me"
	RouteHealth = "/health"
)

// RouterConfig holds the dependencies of the login API.
type RouterConfig struct {
	DB              *sql.DB
	Tokens          *token.Manager
	LoginProtection *middleware.LoginProtection
	Version         string
	IsDev           bool
	RequestTimeout  time.Duration
	AccessLog       bool
	Logger          *slog.Logger
}

// NewRouter assembles the login API's chi router.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	h := NewHandler(cfg.DB, cfg.Tokens, cfg.LoginProtection, cfg.Logger)
	health := handler.NewHealthHandler(cfg.DB, cfg.Version, HasValidToken(cfg.Tokens))

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDev)))

	r.Get(RouteHealth, health.Health)
	r.Get(RouteHealth+"/live", health.Liveness)
	r.Get(RouteHealth+"/ready", health.Readiness)

	var loginLimits []func(http.Handler) http.Handler
	if cfg.LoginProtection != nil {
		loginLimits = append(loginLimits, cfg.LoginProtection.Middleware(http.HandlerFunc(h.RateLimited)))
	}
	r.With(loginLimits...).Post(RouteLogin, h.Login)
	r.With(BearerAuth(cfg.Tokens)).Get(RouteMe, h.Me)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
