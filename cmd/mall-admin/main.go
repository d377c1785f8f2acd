// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/mall-admin/internal/authclient"
	"github.com/olegiv/mall-admin/internal/config"
	"github.com/olegiv/mall-admin/internal/handler"
	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/render"
	"github.com/olegiv/mall-admin/internal/router"
	"github.com/olegiv/mall-admin/internal/session"
	"github.com/olegiv/mall-admin/internal/store"
	"github.com/olegiv/mall-admin/internal/version"
	"github.com/olegiv/mall-admin/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "mall-admin - Mall administration console\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_API_URL           Backend API base URL (default: http://localhost:8080/api)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_DB_PATH           SQLite database path (default: ./data/mall-admin.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_SERVER_PORT       Server port (default: 5173)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_ENV               Environment: development|production (default: development)\n")
	}

	flag.Parse()

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println(info.String("mall-admin"))
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.LoadConsole()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	sessionManager := session.NewManager(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	rt, err := router.New(router.Table(), router.NameLogin)
	if err != nil {
		return fmt.Errorf("building route table: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	client := authclient.New(cfg.APIURL, authclient.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}))
	slog.Info("login API configured", "url", client.LoginURL())

	h := handler.NewConsole(handler.ConsoleConfig{
		SessionManager:  sessionManager,
		Renderer:        renderer,
		Router:          rt,
		Authenticator:   client,
		LoginProtection: loginProtection,
		Health:          handler.NewHealthHandler(db, appVersion, nil),
		StaticFS:        staticFS,
		CSRFKey:         []byte(cfg.SessionSecret),
		IsDev:           cfg.IsDevelopment(),
		AccessLog:       cfg.IsDevelopment(),
		Logger:          logger,
	})

	return serve(cfg.ServerAddr(), cfg.Env, h)
}

// serve runs the server until SIGINT or SIGTERM, then shuts it down gracefully.
func serve(addr, env string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting console", "addr", addr, "env", env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
