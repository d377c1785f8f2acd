// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON login API the console authenticates against.
package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/store"
	"github.com/olegiv/mall-admin/internal/token"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// Error messages.
const (
	msgInvalidBody          = "Invalid request body"
	msgCredentialsRequired  = "Username and password are required"
	msgInvalidCredentials   = "Invalid credentials"
	msgAccountLocked        = "Account temporarily locked, try again later"
	msgTooManyRequests      = "Too many login attempts, try again later"
	msgTokenFailed          = "Failed to generate token"
	msgInternal             = "Internal server error"
	msgMissingAuthorization = "Missing Authorization header"
	msgInvalidAuthorization = "Invalid Authorization header format. Use: Bearer <token>"
	msgInvalidToken         = "Invalid or expired token"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	queries         *store.Queries
	tokens          *token.Manager
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewHandler creates a new API handler. lp may be nil.
func NewHandler(db *sql.DB, tokens *token.Manager, lp *middleware.LoginProtection, logger *slog.Logger) *Handler {
	return &Handler{
		queries:         store.New(db),
		tokens:          tokens,
		loginProtection: lp,
		logger:          logger,
	}
}

// ErrorResponse is the API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes a {"error": message} response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}
