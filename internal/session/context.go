// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import "context"

type contextKey struct{}

// WithStore returns a copy of ctx carrying s.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the store injected by WithStore, or nil.
func FromContext(ctx context.Context) *Store {
	s, _ := ctx.Value(contextKey{}).(*Store)
	return s
}

// IsAuthenticated reports whether ctx carries an authenticated store.
func IsAuthenticated(ctx context.Context) bool {
	s := FromContext(ctx)
	return s != nil && s.IsAuthenticated()
}
