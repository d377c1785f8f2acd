// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mall-admin/internal/authclient"
	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/render"
)

// AuthHandler handles the login page, login submission and logout.
type AuthHandler struct {
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		logger:          logger,
	}
}

type loginFormData struct {
	Username string
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{
		Title: "Sign in",
		Data:  loginFormData{Username: h.sessionManager.PopString(r.Context(), "login_username")},
	}
	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteLogin, msgInvalidForm)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, msgCredentialsRequired)
		return
	}

	// remember the username so the form can be refilled after a failure
	h.sessionManager.Put(r.Context(), "login_username", username)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			h.logger.Warn("login attempt on locked account", "username", username, "ip", middleware.GetClientIP(r))
			flashError(w, r, h.renderer, RouteLogin,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	store := middleware.GetStore(r)
	if store == nil {
		logAndInternalError(w, "login without a session store", "path", r.URL.Path)
		return
	}

	if _, err := store.Login(r.Context(), username, password); err != nil {
		h.loginFailed(w, r, username, err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Remove(r.Context(), "login_username")

	admin := store.Admin()
	flashAndRedirect(w, r, h.renderer, RouteRoot,
		fmt.Sprintf("Welcome back, %s!", admin.DisplayName()), render.FlashSuccess)
}

// loginFailed maps a login error onto a flash message. Only rejected
// credentials count towards the account lockout.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, username string, err error) {
	var apiErr *authclient.APIError
	if !errors.As(err, &apiErr) {
		flashError(w, r, h.renderer, RouteLogin, msgLoginUnavailable)
		return
	}

	switch {
	case apiErr.Unauthorized():
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
				flashError(w, r, h.renderer, RouteLogin,
					fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration)))
				return
			}
			if remaining := h.loginProtection.GetRemainingAttempts(username); remaining > 0 && remaining <= 3 {
				flashError(w, r, h.renderer, RouteLogin,
					fmt.Sprintf("%s. %d attempts remaining.", msgInvalidCredentials, remaining))
				return
			}
		}
		flashError(w, r, h.renderer, RouteLogin, msgInvalidCredentials)
	case apiErr.StatusCode == http.StatusTooManyRequests:
		flashError(w, r, h.renderer, RouteLogin, msgRateLimited)
	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.Message != "":
		// Message is only set from the API's JSON "error" field.
		flashError(w, r, h.renderer, RouteLogin, apiErr.Message)
	default:
		flashError(w, r, h.renderer, RouteLogin, msgLoginUnavailable)
	}
}

// Logout clears the admin session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if store := middleware.GetStore(r); store != nil {
		if admin := store.Admin(); admin != nil {
			h.logger.Info("admin logged out", "admin_id", admin.ID, "username", admin.Username)
		}
		store.Logout(r.Context())
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		h.logger.Error("session renewal error", "error", err)
	}

	flashAndRedirect(w, r, h.renderer, RouteLogin, msgLoggedOut, render.FlashInfo)
}

// RateLimited answers a login submission rejected by the IP rate limiter.
func (h *AuthHandler) RateLimited(w http.ResponseWriter, r *http.Request) {
	flashError(w, r, h.renderer, RouteLogin, msgRateLimited)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
