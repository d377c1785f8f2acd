// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// adminctl drives an admin session from the terminal. The session is kept
// under the same two storage keys the console uses, in a local SQLite file,
// Redis, or memory.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/mall-admin/internal/authclient"
	"github.com/olegiv/mall-admin/internal/config"
	"github.com/olegiv/mall-admin/internal/kv"
	"github.com/olegiv/mall-admin/internal/router"
	"github.com/olegiv/mall-admin/internal/session"
	"github.com/olegiv/mall-admin/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "adminctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) > 0 && (args[0] == "version" || args[0] == "-version" || args[0] == "-v") {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println(info.String("adminctl"))
		return nil
	}

	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	storage, info, err := kv.New(storageConfig(cfg))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := kv.Close(storage); err != nil {
			logger.Warn("error closing storage", "error", err)
		}
	}()
	if info.IsFallback {
		logger.Warn("session storage is in memory; sessions end when adminctl exits", "requested", cfg.Storage)
	}
	logger.Debug("storage opened", "type", info.Type, "fallback", info.IsFallback)

	client := authclient.New(cfg.APIURL, authclient.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}))

	a := &app{
		store:  session.New(storage, client, logger),
		router: router.MustNew(router.Table(), router.NameLogin),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	return a.exec(ctx, args)
}

// storageConfig maps the adminctl storage settings onto kv.Config.
func storageConfig(cfg *config.Config) kv.Config {
	return kv.Config{
		Type:             cfg.Storage,
		Path:             cfg.StoragePath,
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.StoragePrefix,
		FallbackToMemory: cfg.StorageFallback,
	}
}
