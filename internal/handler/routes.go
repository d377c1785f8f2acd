// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/render"
	"github.com/olegiv/mall-admin/internal/router"
	"github.com/olegiv/mall-admin/internal/session"
)

// ConsoleConfig holds the dependencies of the console's HTTP surface.
type ConsoleConfig struct {
	SessionManager  *scs.SessionManager
	Renderer        *render.Renderer
	Router          *router.Router
	Authenticator   session.Authenticator
	LoginProtection *middleware.LoginProtection
	Health          *HealthHandler
	StaticFS        fs.FS
	CSRFKey         []byte
	IsDev           bool
	RequestTimeout  time.Duration
	// AccessLog enables chi's request logger.
	AccessLog bool
	Logger    *slog.Logger
}

// NewConsole assembles the console's chi router.
func NewConsole(cfg ConsoleConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	authHandler := NewAuthHandler(cfg.Renderer, cfg.SessionManager, cfg.LoginProtection, cfg.Logger)
	viewsHandler := NewViewsHandler(cfg.Renderer, cfg.Router)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDev)))

	if cfg.StaticFS != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(cfg.StaticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.SessionManager.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(cfg.CSRFKey, cfg.IsDev)))
		r.Use(middleware.LoadSession(cfg.SessionManager, cfg.Authenticator, cfg.Logger))
		r.Use(router.Middleware(cfg.Router))

		if cfg.Health != nil {
			r.Get(RouteHealth, cfg.Health.Health)
			r.Get(RouteHealth+"/live", cfg.Health.Liveness)
			r.Get(RouteHealth+"/ready", cfg.Health.Readiness)
		}

		r.With(router.RedirectIfAuthenticated(RouteRoot)).Get(RouteLogin, authHandler.LoginForm)

		var loginLimits []func(http.Handler) http.Handler
		if cfg.LoginProtection != nil {
			loginLimits = append(loginLimits, cfg.LoginProtection.Middleware(http.HandlerFunc(authHandler.RateLimited)))
		}
		r.With(loginLimits...).Post(RouteLogin, authHandler.Login)

		r.Get(RouteLogout, authHandler.Logout)
		r.Post(RouteLogout, authHandler.Logout)

		for _, m := range cfg.Router.Routes() {
			if m.RequiresAuth() {
				r.Get(m.Path, viewsHandler.Show)
			}
		}

		r.NotFound(viewsHandler.NotFound)
	})

	return r
}
