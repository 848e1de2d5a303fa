// Package authclient is the consumer side of the back-office auth API: a
// typed HTTP client, the AuthContext holding the current session, and the
// navigation guard that decides what a screen request resolves to.
//
// Client decisions are advisory. The API re-checks every call.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/guard"
)

// LoginKind selects the login endpoint.
type LoginKind string

const (
	StaffLogin LoginKind = "staff"
	AdminLogin LoginKind = "admin"
)

// SessionView is the session as the API exposes it.
type SessionView struct {
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	StaffID   *int64      `json:"staffId"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	Name      string               `json:"name"`
	Role      domain.Role          `json:"role"`
	User      domain.PrincipalView `json:"user"`
}

// RouteTable is the published route declaration.
type RouteTable struct {
	Routes            []guard.Entry          `json:"routes"`
	StaffCapabilities []domain.Capability    `json:"staffCapabilities"`
	Landing           map[domain.Role]string `json:"landing"`
}

// Client calls the auth API. It holds no session state.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL. A nil httpClient gets a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Login authenticates against the staff or admin endpoint.
func (c *Client) Login(ctx context.Context, kind LoginKind, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/"+string(kind)+"/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout destroys the session behind token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// Session returns the session behind token.
func (c *Client) Session(ctx context.Context, token string) (*SessionView, error) {
	var out SessionView
	if err := c.do(ctx, http.MethodGet, "/auth/session", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Routes fetches the route table the API enforces.
func (c *Client) Routes(ctx context.Context) (*RouteTable, error) {
	var out RouteTable
	if err := c.do(ctx, http.MethodGet, "/auth/routes", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// APIError is a non-2xx answer. It unwraps to the matching domain error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		if e.Message == domain.ErrInvalidCredentials.Error() {
			return domain.ErrInvalidCredentials
		}
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest:
		if e.Message == domain.ErrDuplicateUsername.Error() {
			return domain.ErrDuplicateUsername
		}
		return domain.ErrInvalidInput
	default:
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
