// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/mall-admin/internal/config"
	"github.com/olegiv/mall-admin/internal/handler/api"
	"github.com/olegiv/mall-admin/internal/logging"
	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/model"
	"github.com/olegiv/mall-admin/internal/store"
	"github.com/olegiv/mall-admin/internal/token"
	"github.com/olegiv/mall-admin/internal/version"
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
		_, _ = fmt.Fprintf(os.Stderr, "mall-api - Admin login API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_JWT_SECRET        Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_TOKEN_TTL         Token lifetime (default: 24h)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_DB_PATH           SQLite database path (default: ./data/mall-admin.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_API_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_DO_SEED           Create the default admin account (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MALL_ADMIN_PASSWORD    Password of the seeded admin account\n")
	}

	flag.Parse()

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println(info.String("mall-api"))
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

	cfg, err := config.LoadAPI()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(textHandler))

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

	// Upgrade logger to also write WARN and ERROR logs to the events table
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	if err := store.Seed(context.Background(), db, cfg.DoSeed, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	admins, err := store.New(db).CountAdmins(context.Background())
	if err != nil {
		return fmt.Errorf("counting admin accounts: %w", err)
	}
	if admins == 0 {
		slog.Warn("no admin accounts exist; set MALL_DO_SEED=true to create the default admin",
			logging.KeyCategory, model.EventCategoryConfig)
	}

	tokens, err := token.NewManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("initializing tokens: %w", err)
	}
	slog.Info("token issuer ready", "ttl", tokens.TTL())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	h := api.NewRouter(api.RouterConfig{
		DB:              db,
		Tokens:          tokens,
		LoginProtection: loginProtection,
		Version:         appVersion,
		IsDev:           cfg.IsDevelopment(),
		AccessLog:       cfg.IsDevelopment(),
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:              cfg.APIAddr(),
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting login API", "addr", cfg.APIAddr(), "env", cfg.Env)
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
