// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mall-admin/internal/model"
	"github.com/olegiv/mall-admin/web"
)

func TestBlankLinesRegex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no blank lines", "line1\nline2\nline3", "line1\nline2\nline3"},
		{"one blank line", "line1\n\nline2", "line1\nline2"},
		{"multiple blank lines", "line1\n\n\n\n\nline2", "line1\nline2"},
		{"blank lines with spaces", "line1\n  \n\t\nline2", "line1\nline2"},
		{"windows line endings", "line1\r\n\r\n\r\nline2", "line1\nline2"},
		{"mixed line endings", "line1\n\r\n\nline2", "line1\nline2"},
		{"blank lines at start", "\n\n\nline1\nline2", "\nline1\nline2"},
		{"blank lines at end", "line1\nline2\n\n\n", "line1\nline2\n"},
		{"empty input", "", ""},
		{"only newlines", "\n\n\n\n", "\n"},
		{"html with blank lines", "<div>\n\n\n<p>text</p>\n\n\n</div>", "<div>\n<p>text</p>\n</div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(blankLinesRegex.ReplaceAll([]byte(tt.input), []byte("\n")))
			if got != tt.expected {
				t.Errorf("blankLinesRegex.ReplaceAll(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTemplateFuncs(t *testing.T) {
	funcs := TemplateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	testTime := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := formatDate(testTime); got != "Mar 15, 2025" {
		t.Errorf("formatDate() = %q, want %q", got, "Mar 15, 2025")
	}

	initial := funcs["initial"].(func(string) string)
	if got := initial("admin"); got != "A" {
		t.Errorf("initial(admin) = %q, want A", got)
	}
	if got := initial(""); got != "?" {
		t.Errorf("initial(\"\") = %q, want ?", got)
	}

	isActive := funcs["isActive"].(func(string, string) bool)
	if !isActive("/orders", "/orders") || isActive("/orders", "/") {
		t.Error("isActive() should compare paths exactly")
	}
}

var testFS = fstest.MapFS{
	"layouts/base.html":   {Data: []byte(`{{define "base"}}[{{template "layout" .}}]{{end}}{{define "layout"}}{{template "content" .}}{{end}}`)},
	"layouts/home.html":   {Data: []byte(`{{define "layout"}}home:{{if .Flash}}{{.FlashType}}={{.Flash}};{{end}}{{template "content" .}}{{end}}`)},
	"partials/noop.html":  {Data: []byte(`{{define "noop"}}{{end}}`)},
	"auth/login.html":     {Data: []byte(`{{define "content"}}login{{end}}`)},
	"home/dashboard.html": {Data: []byte(`{{define "content"}}dash {{.CurrentPath}}{{with .Admin}} {{.DisplayName}}{{end}}{{end}}`)},
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if !r.Has("auth/login") || !r.Has("home/dashboard") {
		t.Fatal("expected auth/login and home/dashboard to be parsed")
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err = r.Render(rec, req, "home/dashboard", TemplateData{Admin: &model.Admin{Username: "root"}})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := rec.Body.String(); got != "[home:dash / root]" {
		t.Errorf("body = %q, want %q", got, "[home:dash / root]")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = httptest.NewRecorder()
	if err := r.RenderStatus(rec, req, http.StatusUnauthorized, "auth/login", TemplateData{}); err != nil {
		t.Fatalf("RenderStatus() error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized || rec.Body.String() != "[login]" {
		t.Errorf("RenderStatus() = %d %q", rec.Code, rec.Body.String())
	}

	if err := r.Render(httptest.NewRecorder(), req, "home/missing", TemplateData{}); err == nil {
		t.Error("Render() should fail for an unknown template")
	}
}

func TestRender_Flash(t *testing.T) {
	sm := scs.New()
	r, err := New(Config{TemplatesFS: testFS, SessionManager: sm})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	r.SetFlash(req, "Logged out", FlashSuccess)

	rec := httptest.NewRecorder()
	if err := r.Render(rec, req, "home/dashboard", TemplateData{}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := rec.Body.String(); !strings.Contains(got, "success=Logged out;") {
		t.Errorf("body = %q, want flash", got)
	}

	// flash is shown once
	rec = httptest.NewRecorder()
	if err := r.Render(rec, req, "home/dashboard", TemplateData{}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := rec.Body.String(); strings.Contains(got, "Logged out") {
		t.Errorf("body = %q, flash should be consumed", got)
	}
}

func TestNew_EmbeddedTemplates(t *testing.T) {
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub() error: %v", err)
	}
	r, err := New(Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	admin := &model.Admin{ID: 1, Username: "admin", Role: model.RoleAdmin}
	nav := []NavItem{{Label: "Dashboard", Path: "/"}, {Label: "Orders", Path: "/orders"}}

	for _, name := range []string{
		"auth/login", "errors/404",
		"home/dashboard", "home/products", "home/orders", "home/chat", "home/notifications",
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			data := TemplateData{Title: "Orders", Admin: admin, Nav: nav, Flash: "hello", FlashType: FlashInfo}
			if err := r.Render(rec, req, name, data); err != nil {
				t.Fatalf("Render(%s) error: %v", name, err)
			}
			body := rec.Body.String()
			if !strings.Contains(body, "<title>Orders · Mall Admin</title>") {
				t.Errorf("Render(%s) missing title", name)
			}
			if !strings.Contains(body, "hello") {
				t.Errorf("Render(%s) missing flash", name)
			}
			if strings.HasPrefix(name, "home/") {
				if !strings.Contains(body, `href="/orders" class="active"`) {
					t.Errorf("Render(%s) should mark the current nav item active", name)
				}
				if !strings.Contains(body, `action="/logout"`) {
					t.Errorf("Render(%s) missing logout form", name)
				}
			}
		})
	}
}
