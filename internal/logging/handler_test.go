// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/olegiv/mall-admin/internal/model"
	"github.com/olegiv/mall-admin/internal/store"
	"github.com/olegiv/mall-admin/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func recentEvents(t *testing.T, q *store.Queries) []model.Event {
	t.Helper()
	events, err := q.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_LevelThreshold(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	events := recentEvents(t, store.New(db))
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	levels := map[string]bool{}
	for _, e := range events {
		levels[e.Level] = true
	}
	if !levels[model.EventLevelWarning] || !levels[model.EventLevelError] {
		t.Errorf("levels = %v, want warning and error", levels)
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("warn message")
	logger.Error("error message")

	events := recentEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Message != "error message" {
		t.Errorf("Message = %q, want %q", events[0].Message, "error message")
	}
}

func TestEventLogHandler_CategoryAndAdmin(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	admin, err := q.CreateAdmin(context.Background(), store.CreateAdminParams{
		Username:     "alice",
		PasswordHash: "x",
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Warn("something odd", "category", model.EventCategoryConfig, "admin_id", admin.ID, "ip", "10.0.0.1")

	events := recentEvents(t, q)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Category != model.EventCategoryConfig {
		t.Errorf("Category = %q, want %q", e.Category, model.EventCategoryConfig)
	}
	if !e.AdminID.Valid || e.AdminID.Int64 != admin.ID {
		t.Errorf("AdminID = %v, want %d", e.AdminID, admin.ID)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%q)", err, e.Metadata)
	}
	if meta["ip"] != "10.0.0.1" {
		t.Errorf("metadata ip = %q, want 10.0.0.1", meta["ip"])
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestEventLogHandler_WithAttrsAndGroup(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).
		With("component", "api").
		WithGroup("req")

	logger.Warn("login failed", "username", `ali"ce`)

	events := recentEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryAuth {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategoryAuth)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["component"] != "api" {
		t.Errorf("component = %q, want api", meta["component"])
	}
	if meta["req.username"] != `ali"ce` {
		t.Errorf("req.username = %q, want %q", meta["req.username"], `ali"ce`)
	}
}

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Login failed", model.EventCategoryAuth},
		{"account locked", model.EventCategoryAuth},
		{"token signing failed", model.EventCategoryAuth},
		{"config reloaded", model.EventCategoryConfig},
		{"database is slow", model.EventCategoryStore},
		{"disk nearly full", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := extractCategory(tt.message, nil); got != tt.want {
				t.Errorf("extractCategory(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestExtractMetadata_Empty(t *testing.T) {
	if got := extractMetadata(nil); got != "{}" {
		t.Errorf("extractMetadata(nil) = %q, want {}", got)
	}
}

func TestSlogLevelToEventLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, model.EventLevelInfo},
		{slog.LevelInfo, model.EventLevelInfo},
		{slog.LevelWarn, model.EventLevelWarning},
		{slog.LevelError, model.EventLevelError},
		{slog.LevelError + 4, model.EventLevelError},
	}

	for _, tt := range tests {
		if got := slogLevelToEventLevel(tt.level); got != tt.want {
			t.Errorf("slogLevelToEventLevel(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
