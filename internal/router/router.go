// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"fmt"
	"path"
	"strings"
)

// Error is a router error.
type Error string

func (e Error) Error() string { return string(e) }

// ErrNoMatch is returned when no route matches a path or name.
const ErrNoMatch Error = "router: no matching route"

// Match is a resolved route: the leaf route, the chain of matched
// records from the outermost layout down, and the full path.
type Match struct {
	Route   Route
	Matched []Route
	Path    string
}

// Name returns the leaf route name.
func (m Match) Name() string { return m.Route.Name }

// RequiresAuth reports whether any matched record requires
// authentication. Nested views inherit their layout's flag.
func (m Match) RequiresAuth() bool {
	for _, r := range m.Matched {
		if r.RequiresAuth {
			return true
		}
	}
	return false
}

// Router resolves paths and names against a route table.
type Router struct {
	entries   []Match
	byPath    map[string]int
	byName    map[string]int
	loginPath string
}

// New builds a router over routes. loginName names the route
// unauthenticated navigation is redirected to.
func New(routes []Route, loginName string) (*Router, error) {
	rt := &Router{
		byPath: make(map[string]int),
		byName: make(map[string]int),
	}
	if err := rt.add(routes, nil, "/"); err != nil {
		return nil, err
	}

	login, err := rt.ResolveName(loginName)
	if err != nil {
		return nil, fmt.Errorf("login route %q: %w", loginName, err)
	}
	rt.loginPath = login.Path
	return rt, nil
}

// MustNew is like New but panics on error. It is meant for the static
// route table.
func MustNew(routes []Route, loginName string) *Router {
	rt, err := New(routes, loginName)
	if err != nil {
		panic(err)
	}
	return rt
}

func (rt *Router) add(routes []Route, parents []Route, base string) error {
	for _, r := range routes {
		full := joinPath(base, r.Path)
		chain := append(append([]Route(nil), parents...), r)

		if r.Name != "" {
			if _, dup := rt.byName[r.Name]; dup {
				return fmt.Errorf("duplicate route name %q", r.Name)
			}
		}

		m := Match{Route: r, Matched: chain, Path: full}
		rt.entries = append(rt.entries, m)
		idx := len(rt.entries) - 1
		if r.Name != "" {
			rt.byName[r.Name] = idx
		}

		// A layout's empty child owns the layout's path.
		if len(r.Children) == 0 || !hasDefaultChild(r.Children) {
			if _, dup := rt.byPath[full]; dup {
				return fmt.Errorf("duplicate route path %q", full)
			}
			rt.byPath[full] = idx
		}

		if err := rt.add(r.Children, chain, full); err != nil {
			return err
		}
	}
	return nil
}

func hasDefaultChild(children []Route) bool {
	for _, c := range children {
		if c.Path == "" {
			return true
		}
	}
	return false
}

func joinPath(base, p string) string {
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	return path.Clean("/" + strings.TrimPrefix(path.Join(base, p), "/"))
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Clean("/" + p)
}

// Resolve returns the match for a path. Query strings, fragments and
// trailing slashes are ignored.
func (rt *Router) Resolve(p string) (Match, error) {
	idx, ok := rt.byPath[normalize(p)]
	if !ok {
		return Match{}, fmt.Errorf("resolving %q: %w", p, ErrNoMatch)
	}
	return rt.entries[idx], nil
}

// ResolveName returns the match for a route name.
func (rt *Router) ResolveName(name string) (Match, error) {
	idx, ok := rt.byName[name]
	if !ok {
		return Match{}, fmt.Errorf("resolving route %q: %w", name, ErrNoMatch)
	}
	return rt.entries[idx], nil
}

// LoginPath returns the path of the login route.
func (rt *Router) LoginPath() string { return rt.loginPath }

// Routes returns every navigable route in table order. Layouts whose
// path belongs to a default child are omitted.
func (rt *Router) Routes() []Match {
	out := make([]Match, 0, len(rt.byPath))
	for i, m := range rt.entries {
		if rt.byPath[m.Path] == i {
			out = append(out, m)
		}
	}
	return out
}

// Navigate resolves p and runs the guard. When the guard redirects, the
// returned match is the login route.
func (rt *Router) Navigate(p string, authenticated bool) (Match, Outcome, error) {
	to, err := rt.Resolve(p)
	if err != nil {
		return Match{}, Outcome{}, err
	}

	outcome := guard(to, authenticated, rt.loginPath)
	if outcome.Decision == Redirect {
		dest, err := rt.Resolve(outcome.Target)
		if err != nil {
			return Match{}, Outcome{}, err
		}
		return dest, outcome, nil
	}
	return to, outcome, nil
}
