// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/olegiv/mall-admin/internal/session"
)

type contextKey struct{}

// WithMatch returns a copy of ctx carrying m.
func WithMatch(ctx context.Context, m Match) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// MatchFromContext returns the match stored by Middleware.
func MatchFromContext(ctx context.Context) (Match, bool) {
	m, ok := ctx.Value(contextKey{}).(Match)
	return m, ok
}

// Middleware guards every request whose path is in the route table.
// Unauthenticated requests for protected routes are redirected to the
// login page; allowed requests carry their Match in the context. Paths
// outside the table pass through untouched.
func Middleware(rt *Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			match, outcome, err := rt.Navigate(r.URL.Path, session.IsAuthenticated(r.Context()))
			if errors.Is(err, ErrNoMatch) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if outcome.Decision == Redirect {
				http.Redirect(w, r, outcome.Target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithMatch(r.Context(), match)))
		})
	}
}

// RedirectIfAuthenticated sends an already authenticated admin to target.
// It wraps the login page.
func RedirectIfAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.IsAuthenticated(r.Context()) {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
