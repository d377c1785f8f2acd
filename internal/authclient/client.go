// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package authclient talks to the backend's admin login endpoint.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/olegiv/mall-admin/internal/model"
)

// LoginPath is appended to the API base URL.
const LoginPath = "/auth/admin/login"

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

// LoginRequest is the JSON body sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the JSON body returned on success.
//
// AdminRaw holds the "admin" object exactly as the API sent it; Admin is
// the typed view decoded from it.
type LoginResponse struct {
	Token    string          `json:"token"`
	Admin    *model.Admin    `json:"admin"`
	AdminRaw json.RawMessage `json:"-"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("login failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("login failed: %d %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the API rejected the credentials.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// Client posts credentials to {baseURL}/auth/admin/login.
// Requests are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API rooted at baseURL
// (e.g. http://localhost:8080/api).
//
// The default http.Client has no Timeout, so a request is bounded only by
// its context. The mall-admin and adminctl binaries pass their own client
// with a 15s Timeout through WithHTTPClient.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginURL returns the endpoint the client posts to.
func (c *Client) LoginURL() string {
	return c.baseURL + LoginPath
}

// Login sends the credentials and decodes {token, admin}.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encoding login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.LoginURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var wire struct {
		Token string          `json:"token"`
		Admin json.RawMessage `json:"admin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}

	result := &LoginResponse{Token: wire.Token}
	if len(wire.Admin) > 0 && !bytes.Equal(wire.Admin, []byte("null")) {
		var admin model.Admin
		if err := json.Unmarshal(wire.Admin, &admin); err != nil {
			return nil, fmt.Errorf("decoding login response admin: %w", err)
		}
		result.Admin = &admin
		result.AdminRaw = wire.Admin
	}
	return result, nil
}

// decodeAPIError builds an APIError from the {"error": "..."} body the
// backend sends. Any other body leaves Message empty.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = strings.TrimSpace(payload.Error)
	}
	return apiErr
}
