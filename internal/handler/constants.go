// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the console's HTTP handlers.
package handler

// Route paths.
const (
	RouteRoot   = "/"
	RouteLogin  = "/login"
	RouteLogout = "/logout"
	RouteHealth = "/health"
)

// Flash messages.
const (
	msgInvalidForm         = "Invalid form data"
	msgCredentialsRequired = "Username and password are required"
	msgInvalidCredentials  = "Invalid username or password"
	msgLoginUnavailable    = "The login service is unavailable. Please try again later."
	msgRateLimited         = "Too many login attempts. Please try again later."
	msgLoggedOut           = "You have been logged out"
)
