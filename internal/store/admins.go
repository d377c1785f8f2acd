// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/mall-admin/internal/model"
)

const adminColumns = `id, username, password_hash, role, avatar, created_at, updated_at, last_login_at`

func scanAdmin(row interface{ Scan(...any) error }) (model.Admin, error) {
	var a model.Admin
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Role,
		&a.Avatar,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.LastLoginAt,
	)
	return a, err
}

// CreateAdminParams holds the columns for a new admin user.
type CreateAdminParams struct {
	Username     string
	PasswordHash string
	Role         string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateAdmin inserts an admin user and returns the stored row.
func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (model.Admin, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO admin_users (username, password_hash, role, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+adminColumns,
		arg.Username, arg.PasswordHash, arg.Role, arg.Avatar, arg.CreatedAt, arg.UpdatedAt,
	)
	return scanAdmin(row)
}

// GetAdminByID returns sql.ErrNoRows when the admin does not exist.
func (q *Queries) GetAdminByID(ctx context.Context, id int64) (model.Admin, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE id = ?`, id)
	return scanAdmin(row)
}

// GetAdminByUsername returns sql.ErrNoRows when the admin does not exist.
func (q *Queries) GetAdminByUsername(ctx context.Context, username string) (model.Admin, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE username = ?`, username)
	return scanAdmin(row)
}

// CountAdmins returns the number of admin users.
func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n)
	return n, err
}

// UpdateAdminPasswordParams holds the columns for a password change.
type UpdateAdminPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateAdminPassword replaces the stored password hash.
func (q *Queries) UpdateAdminPassword(ctx context.Context, arg UpdateAdminPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE admin_users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID,
	)
	return err
}

// UpdateAdminLastLoginParams holds the columns for a login timestamp update.
type UpdateAdminLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          int64
}

// UpdateAdminLastLogin records the time of the latest successful login.
func (q *Queries) UpdateAdminLastLogin(ctx context.Context, arg UpdateAdminLastLoginParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE admin_users SET last_login_at = ? WHERE id = ?`,
		arg.LastLoginAt, arg.ID,
	)
	return err
}
