// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records shared by the console,
// the login API and adminctl.
package model

import (
	"database/sql"
	"time"
)

// Admin roles carried on the identity record. The console does not
// authorize by role; it only displays it.
const (
	RoleAdmin        = "admin"
	RoleSupport      = "support"
	RoleStockManager = "stock_manager"
)

// Admin is the administrator identity returned by the login API and
// persisted by the console under the admin_user storage key.
type Admin struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         string       `json:"role,omitempty"`
	Avatar       string       `json:"avatar,omitempty"`
	CreatedAt    time.Time    `json:"created_at,omitzero"`
	UpdatedAt    time.Time    `json:"updated_at,omitzero"`
	LastLoginAt  sql.NullTime `json:"-"`
}

// DisplayName returns the username, or a generic label for records
// that arrived without one.
func (a *Admin) DisplayName() string {
	if a == nil || a.Username == "" {
		return "Administrator"
	}
	return a.Username
}
