// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/mall-admin/internal/auth"
	"github.com/olegiv/mall-admin/internal/model"
)

// DefaultAdminUsername is the account created by Seed.
const DefaultAdminUsername = "admin"

// Seed creates the default admin account when doSeed is set and the
// account does not exist yet.
func Seed(ctx context.Context, db *sql.DB, doSeed bool, password string) error {
	if !doSeed {
		slog.Debug("seeding disabled, skipping")
		return nil
	}
	if password == "" {
		return errors.New("seed password must not be empty")
	}

	queries := New(db)

	_, err := queries.GetAdminByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	admin, err := queries.CreateAdmin(ctx, CreateAdminParams{
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user", "id", admin.ID, "username", admin.Username)
	return nil
}
