// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/olegiv/mall-admin/internal/token"
)

type contextKey string

const contextKeyAdminID contextKey = "admin_id"

// bearerToken returns the token of an "Authorization: Bearer" header.
// ok is false when the header is missing or malformed.
func bearerToken(r *http.Request) (tok string, present, ok bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false, false
	}
	scheme, rest, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", true, false
	}
	rest = strings.TrimSpace(rest)
	return rest, true, rest != ""
}

// BearerAuth creates middleware that requires a valid admin token.
func BearerAuth(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, present, ok := bearerToken(r)
			switch {
			case !present:
				WriteError(w, http.StatusUnauthorized, msgMissingAuthorization)
				return
			case !ok:
				WriteError(w, http.StatusUnauthorized, msgInvalidAuthorization)
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyAdminID, claims.AdminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminIDFromContext returns the admin ID set by BearerAuth.
func AdminIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKeyAdminID).(int64)
	return id, ok
}

// HasValidToken reports whether r carries a valid admin token.
func HasValidToken(tokens *token.Manager) func(*http.Request) bool {
	return func(r *http.Request) bool {
		raw, _, ok := bearerToken(r)
		if !ok {
			return false
		}
		_, err := tokens.Validate(raw)
		return err == nil
	}
}
