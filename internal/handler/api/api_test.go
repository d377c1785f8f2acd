// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mall-admin/internal/auth"
	"github.com/olegiv/mall-admin/internal/authclient"
	"github.com/olegiv/mall-admin/internal/logging"
	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/model"
	"github.com/olegiv/mall-admin/internal/store"
	"github.com/olegiv/mall-admin/internal/testutil"
	"github.com/olegiv/mall-admin/internal/token"
)

const (
	testPassword = "s3cret-Password"
	chromeUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// fastParams keep tests quick and differ from auth.DefaultParams.
var fastParams = auth.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type testAPI struct {
	db      *sql.DB
	queries *store.Queries
	tokens  *token.Manager
	handler http.Handler
	admin   model.Admin
}

func newTestAPI(t *testing.T, lp *middleware.LoginProtection) *testAPI {
	t.Helper()

	db := testutil.TestDB(t)
	queries := store.New(db)

	hash, err := auth.HashWithParams(testPassword, fastParams)
	require.NoError(t, err)

	now := time.Now()
	admin, err := queries.CreateAdmin(context.Background(), store.CreateAdminParams{
		Username:     "alice",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)

	tokens, err := token.NewManager([]byte("test-Secret-key-32-bytes-long!!!"), time.Hour)
	require.NoError(t, err)

	logger := slog.New(logging.NewEventLogHandler(slog.DiscardHandler, db))

	return &testAPI{
		db:      db,
		queries: queries,
		tokens:  tokens,
		admin:   admin,
		handler: NewRouter(RouterConfig{
			DB:              db,
			Tokens:          tokens,
			LoginProtection: lp,
			Version:         "test",
			IsDev:           true,
			Logger:          logger,
		}),
	}
}

func (a *testAPI) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", chromeUA)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(authclient.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	return a.do(t, http.MethodPost, RouteLogin, string(body), nil)
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp.Error
}

func TestLogin_Success(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.login(t, "alice", testPassword)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp authclient.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Admin)
	assert.Equal(t, a.admin.ID, resp.Admin.ID)
	assert.Equal(t, "alice", resp.Admin.Username)
	assert.NotContains(t, w.Body.String(), "argon2id", "password hash must not leak")

	claims, err := a.tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, a.admin.ID, claims.AdminID)

	stored, err := a.queries.GetAdminByID(context.Background(), a.admin.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastLoginAt.Valid, "last login should be recorded")
}

func TestLogin_RehashesOutdatedPassword(t *testing.T) {
	a := newTestAPI(t, nil)
	require.True(t, auth.NeedsRehash(a.admin.PasswordHash))

	w := a.login(t, "alice", testPassword)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := a.queries.GetAdminByID(context.Background(), a.admin.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.admin.PasswordHash, stored.PasswordHash)
	assert.False(t, auth.NeedsRehash(stored.PasswordHash))

	ok, err := auth.CheckPassword(testPassword, stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogin_BadRequests(t *testing.T) {
	a := newTestAPI(t, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", "{", msgInvalidBody},
		{"missing password", `{"username":"alice"}`, msgCredentialsRequired},
		{"missing username", `{"password":"x"}`, msgCredentialsRequired},
		{"blank username", `{"username":"  ","password":"x"}`, msgCredentialsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, http.MethodPost, RouteLogin, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, errorMessage(t, w))
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	a := newTestAPI(t, nil)

	for _, creds := range [][2]string{{"alice", "wrong"}, {"mallory", testPassword}} {
		w := a.login(t, creds[0], creds[1])
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, msgInvalidCredentials, errorMessage(t, w))
	}

	events, err := a.queries.ListRecentEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, model.EventCategoryAuth, e.Category)
		assert.Equal(t, model.EventLevelWarning, e.Level)

		var meta map[string]string
		require.NoError(t, json.Unmarshal([]byte(e.Metadata), &meta))
		assert.Equal(t, "Chrome", meta["browser"])
		assert.Equal(t, "Windows", meta["os"])
		assert.Equal(t, "desktop", meta["device"])
	}
}

func TestLogin_AccountLockout(t *testing.T) {
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 2,
		LockoutDuration:   time.Minute,
	})
	t.Cleanup(lp.Stop)
	a := newTestAPI(t, lp)

	assert.Equal(t, http.StatusUnauthorized, a.login(t, "alice", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, a.login(t, "alice", "wrong").Code)

	w := a.login(t, "alice", testPassword)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, msgAccountLocked, errorMessage(t, w))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestLogin_IPRateLimit(t *testing.T) {
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit: 0.001,
		IPBurst:     1,
	})
	t.Cleanup(lp.Stop)
	a := newTestAPI(t, lp)

	assert.Equal(t, http.StatusOK, a.login(t, "alice", testPassword).Code)

	w := a.login(t, "alice", testPassword)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, msgTooManyRequests, errorMessage(t, w))
}

func TestMe(t *testing.T) {
	a := newTestAPI(t, nil)

	signed, err := a.tokens.Issue(a.admin.ID)
	require.NoError(t, err)

	w := a.do(t, http.MethodGet, RouteMe, "", map[string]string{"Authorization": "Bearer " + signed})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var admin model.Admin
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &admin))
	assert.Equal(t, "alice", admin.Username)
	assert.Equal(t, model.RoleAdmin, admin.Role)
}

func TestMe_Unauthorized(t *testing.T) {
	a := newTestAPI(t, nil)

	orphan, err := a.tokens.Issue(a.admin.ID + 100)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", msgMissingAuthorization},
		{"wrong scheme", "Basic abc", msgInvalidAuthorization},
		{"empty token", "Bearer ", msgInvalidAuthorization},
		{"garbage", "Bearer abc", msgInvalidToken},
		{"unknown admin", "Bearer " + orphan, msgInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := a.do(t, http.MethodGet, RouteMe, "", headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.want, errorMessage(t, w))
		})
	}
}

func TestHealth_DetailsRequireToken(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.do(t, http.MethodGet, RouteHealth, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "checks")

	signed, err := a.tokens.Issue(a.admin.ID)
	require.NoError(t, err)
	w = a.do(t, http.MethodGet, RouteHealth, "", map[string]string{"Authorization": "Bearer " + signed})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "checks")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, RouteLogin, "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// The console's client and the API agree on the wire format.
func TestLogin_WithAuthClient(t *testing.T) {
	a := newTestAPI(t, nil)
	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)

	client := authclient.New(srv.URL + "/api")

	resp, err := client.Login(context.Background(), "alice", testPassword)
	require.NoError(t, err)
	require.NotNil(t, resp.Admin)
	assert.Equal(t, a.admin.ID, resp.Admin.ID)
	assert.NotEmpty(t, resp.Token)

	_, err = client.Login(context.Background(), "alice", "wrong")
	var apiErr *authclient.APIError
	require.True(t, errors.As(err, &apiErr), "err = %v", err)
	assert.True(t, apiErr.Unauthorized())
	assert.Equal(t, msgInvalidCredentials, apiErr.Message)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusTeapot, "short and stout")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"error":"short and stout"}`, w.Body.String())
}

func TestParseClient(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, RouteLogin, bytes.NewReader(nil))
	req.RemoteAddr = "192.0.2.1:1234"

	info := parseClient(req)
	assert.Equal(t, "192.0.2.1", info.IP)
	assert.Equal(t, "Unknown", info.Browser)
	assert.Equal(t, "Unknown", info.OS)

	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	info = parseClient(req)
	assert.Equal(t, "mobile", info.Device)
	assert.Equal(t, "Safari", info.Browser)
}
