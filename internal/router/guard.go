// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

// Decision is the guard's verdict on a navigation.
type Decision int

const (
	Allow Decision = iota
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "ALLOW"
	case Redirect:
		return "REDIRECT"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of guarding a navigation. Target is the path
// navigation ends up on.
type Outcome struct {
	Decision Decision
	Target   string
}

// Guard decides whether navigation to `to` may proceed. A route that
// requires authentication sends an unauthenticated admin to LoginPath;
// everything else is allowed.
func Guard(to Match, authenticated bool) Outcome {
	return guard(to, authenticated, LoginPath)
}

func guard(to Match, authenticated bool, loginPath string) Outcome {
	if to.RequiresAuth() && !authenticated {
		return Outcome{Decision: Redirect, Target: loginPath}
	}
	return Outcome{Decision: Allow, Target: to.Path}
}
