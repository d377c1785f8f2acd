// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/olegiv/mall-admin/internal/authclient"
	"github.com/olegiv/mall-admin/internal/router"
	"github.com/olegiv/mall-admin/internal/session"
)

// errUsage is returned after usage has been printed.
var errUsage = errors.New("usage")

// app runs adminctl subcommands against one session store.
type app struct {
	store  *session.Store
	router *router.Router
	out    io.Writer
	errOut io.Writer
}

func (a *app) usage() {
	_, _ = fmt.Fprint(a.errOut, `adminctl - manage a mall admin session from the terminal

Usage: adminctl <command> [options]

Commands:
  login -u USER -p PASS   Sign in against the login API
  logout                  Clear the stored session
  status                  Show the signed-in admin
  visit PATH              Show where navigating to PATH ends up
  routes                  List the console's routes
  version                 Show version information

Environment Variables:
  MALL_API_URL            Backend API base URL (default: http://localhost:8080/api)
  MALL_STORAGE            Session storage: sqlite|redis|memory (default: sqlite)
  MALL_STORAGE_PATH       SQLite storage file (default: ./data/adminctl.db)
  MALL_REDIS_URL          Redis URL (required for redis storage)
  MALL_STORAGE_FALLBACK   Use memory storage when Redis is unreachable (default: false)
`)
}

// exec loads the stored session and runs the subcommand named by args[0].
func (a *app) exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errUsage
	}

	if err := a.store.Load(ctx); err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "status":
		return a.status()
	case "visit":
		return a.visit(rest)
	case "routes":
		return a.routes()
	case "help", "-h", "-help", "--help":
		a.usage()
		return nil
	default:
		_, _ = fmt.Fprintf(a.errOut, "unknown command %q\n\n", cmd)
		a.usage()
		return errUsage
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	username := fs.String("u", "", "admin username")
	password := fs.String("p", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if strings.TrimSpace(*username) == "" || *password == "" {
		_, _ = fmt.Fprintln(a.errOut, "login requires -u and -p")
		return errUsage
	}

	if _, err := a.store.Login(ctx, strings.TrimSpace(*username), *password); err != nil {
		var apiErr *authclient.APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			return errors.New("invalid username or password")
		}
		return err
	}

	_, _ = fmt.Fprintf(a.out, "logged in as %s\n", a.store.Admin().DisplayName())
	return nil
}

func (a *app) logout(ctx context.Context) error {
	wasAuthenticated := a.store.IsAuthenticated()
	a.store.Logout(ctx)

	if wasAuthenticated {
		_, _ = fmt.Fprintln(a.out, "logged out")
	} else {
		_, _ = fmt.Fprintln(a.out, "not logged in")
	}
	return nil
}

func (a *app) status() error {
	if !a.store.IsAuthenticated() {
		_, _ = fmt.Fprintln(a.out, "not logged in")
		return nil
	}

	admin := a.store.Admin()
	_, _ = fmt.Fprintf(a.out, "logged in as %s (id %d", admin.DisplayName(), admin.ID)
	if admin.Role != "" {
		_, _ = fmt.Fprintf(a.out, ", role %s", admin.Role)
	}
	_, _ = fmt.Fprintln(a.out, ")")
	return nil
}

func (a *app) visit(args []string) error {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(a.errOut, "visit requires exactly one PATH")
		return errUsage
	}

	to, outcome, err := a.router.Navigate(args[0], a.store.IsAuthenticated())
	if err != nil {
		return fmt.Errorf("visiting %s: %w", args[0], err)
	}

	switch outcome.Decision {
	case router.Redirect:
		_, _ = fmt.Fprintf(a.out, "%s %s -> %s\n", outcome.Decision, args[0], outcome.Target)
	default:
		_, _ = fmt.Fprintf(a.out, "%s %s (%s)\n", outcome.Decision, to.Path, to.Name())
	}
	return nil
}

func (a *app) routes() error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATH\tNAME\tACCESS")
	for _, m := range a.router.Routes() {
		access := "public"
		if m.RequiresAuth() {
			access = "auth"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Path, m.Name(), access)
	}
	return tw.Flush()
}
