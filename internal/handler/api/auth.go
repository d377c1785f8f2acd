// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/mall-admin/internal/auth"
	"github.com/olegiv/mall-admin/internal/authclient"
	"github.com/olegiv/mall-admin/internal/logging"
	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/model"
	"github.com/olegiv/mall-admin/internal/store"
)

// clientInfo describes the caller for the event log.
type clientInfo struct {
	IP      string
	Browser string
	OS      string
	Device  string
}

// parseClient extracts the client IP and user agent details.
func parseClient(r *http.Request) clientInfo {
	ua := useragent.Parse(r.UserAgent())

	info := clientInfo{
		IP:      middleware.GetClientIP(r),
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		info.Device = "mobile"
	case ua.Tablet:
		info.Device = "tablet"
	case ua.Bot:
		info.Device = "bot"
	default:
		info.Device = "desktop"
	}
	return info
}

func (c clientInfo) attrs() []any {
	return []any{
		logging.KeyCategory, model.EventCategoryAuth,
		"ip", c.IP,
		"browser", c.Browser,
		"os", c.OS,
		"device", c.Device,
	}
}

// Login handles POST /api/auth/admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req authclient.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, msgCredentialsRequired)
		return
	}

	client := parseClient(r)
	ctx := r.Context()

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			h.logger.Warn("login attempt on locked account",
				append(client.attrs(), "username", username, "remaining", remaining.Round(time.Second).String())...)
			w.Header().Set("Retry-After", strconv.Itoa(int(remaining.Seconds())+1))
			WriteError(w, http.StatusTooManyRequests, msgAccountLocked)
			return
		}
	}

	admin, err := h.queries.GetAdminByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Error("failed to look up admin", "error", err, "username", username)
			WriteError(w, http.StatusInternalServerError, msgInternal)
			return
		}
		h.loginFailed(w, username, client, "unknown username")
		return
	}

	valid, err := auth.CheckPassword(req.Password, admin.PasswordHash)
	if err != nil {
		h.logger.Error("failed to verify password", "error", err, logging.KeyAdminID, admin.ID)
		WriteError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if !valid {
		h.loginFailed(w, username, client, "invalid password")
		return
	}

	if auth.NeedsRehash(admin.PasswordHash) {
		h.rehashPassword(r, admin.ID, req.Password)
	}

	signed, err := h.tokens.Issue(admin.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, logging.KeyAdminID, admin.ID)
		WriteError(w, http.StatusInternalServerError, msgTokenFailed)
		return
	}

	now := time.Now()
	if err := h.queries.UpdateAdminLastLogin(ctx, store.UpdateAdminLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          admin.ID,
	}); err != nil {
		h.logger.Warn("failed to record last login", "error", err, logging.KeyAdminID, admin.ID)
	}
	admin.LastLoginAt = sql.NullTime{Time: now, Valid: true}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	h.logger.Info("admin logged in", append(client.attrs(), logging.KeyAdminID, admin.ID, "username", admin.Username)...)

	WriteJSON(w, http.StatusOK, authclient.LoginResponse{Token: signed, Admin: &admin})
}

// loginFailed records a rejected attempt and answers 401. Unknown
// usernames and wrong passwords get the same answer.
func (h *Handler) loginFailed(w http.ResponseWriter, username string, client clientInfo, reason string) {
	attrs := append(client.attrs(), "username", username, "reason", reason)

	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
			h.logger.Warn("account locked after failed login attempts",
				append(attrs, "lock_duration", lockDuration.String())...)
			WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
	}

	h.logger.Warn("login failed", attrs...)
	WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
}

// rehashPassword upgrades a hash made with outdated parameters. Failures
// are logged and do not fail the login.
func (h *Handler) rehashPassword(r *http.Request, adminID int64, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		h.logger.Warn("failed to rehash password", "error", err, logging.KeyAdminID, adminID)
		return
	}
	if err := h.queries.UpdateAdminPassword(r.Context(), store.UpdateAdminPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now(),
		ID:           adminID,
	}); err != nil {
		h.logger.Warn("failed to store rehashed password", "error", err, logging.KeyAdminID, adminID)
		return
	}
	h.logger.Info("password rehashed with current parameters", logging.KeyAdminID, adminID)
}

// RateLimited answers a login rejected by the IP rate limiter.
func (h *Handler) RateLimited(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusTooManyRequests, msgTooManyRequests)
}

// Me handles GET /api/auth/admin/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	adminID, ok := AdminIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	admin, err := h.queries.GetAdminByID(r.Context(), adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		h.logger.Error("failed to load admin", "error", err, logging.KeyAdminID, adminID)
		WriteError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	WriteJSON(w, http.StatusOK, admin)
}
