// Package client is a typed Go client for the LMS auth API, intended for
// services and tooling that talk to the backend without a browser. It keeps
// the session alive with an explicit refresh scheduler that starts on login
// and stops on logout.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// User mirrors the API's user payload. Kept local so importers of this
// package never depend on the server's internal packages.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

// Client talks to the LMS API over the Authorization header channel.
type Client struct {
	http *resty.Client

	mu        sync.Mutex
	token     string
	refresher *refresher
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Login authenticates, stores the returned token for subsequent calls, and
// starts the background refresher at refreshEvery. Pass zero to refresh at
// half the server's reported token lifetime's default (12h).
func (c *Client) Login(ctx context.Context, email, password string, refreshEvery time.Duration) (*User, error) {
	var ok authResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&ok).
		SetError(&apiErr).
		Post("/api/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &apiErr
	}
	// A 200 whose body did not decode (wrong content type, empty payload)
	// must not leave the caller with a nil user and a half-open session.
	if ok.User == nil || ok.Token == "" {
		return nil, fmt.Errorf("login response missing user or token (content type %q)", resp.Header().Get("Content-Type"))
	}

	if refreshEvery <= 0 {
		refreshEvery = 12 * time.Hour
	}

	c.mu.Lock()
	c.token = ok.Token
	if c.refresher != nil {
		c.refresher.stop()
	}
	c.refresher = newRefresher(c, refreshEvery)
	c.refresher.start()
	c.mu.Unlock()

	return ok.User, nil
}

// Me returns the principal for the current session.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var ok authResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.currentToken()).
		SetResult(&ok).
		SetError(&apiErr).
		Get("/api/auth/me")
	if err != nil {
		return nil, fmt.Errorf("me request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &apiErr
	}
	if ok.User == nil {
		return nil, fmt.Errorf("me response missing user (content type %q)", resp.Header().Get("Content-Type"))
	}
	return ok.User, nil
}

// Refresh reissues the session token and swaps it in.
func (c *Client) Refresh(ctx context.Context) error {
	var ok authResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.currentToken()).
		SetResult(&ok).
		SetError(&apiErr).
		Post("/api/auth/refresh")
	if err != nil {
		return fmt.Errorf("refresh request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return &apiErr
	}
	if ok.Token == "" {
		// Keep the current token; it stays valid until its own expiry.
		return fmt.Errorf("refresh response missing token (content type %q)", resp.Header().Get("Content-Type"))
	}

	c.mu.Lock()
	c.token = ok.Token
	c.mu.Unlock()
	return nil
}

// Logout stops the refresher and drops the stored token. The server call is
// best-effort: the session is gone locally regardless.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	if c.refresher != nil {
		c.refresher.stop()
		c.refresher = nil
	}
	tok := c.token
	c.token = ""
	c.mu.Unlock()

	if tok == "" {
		return nil
	}
	_, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(tok).
		Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	return nil
}

// Token exposes the current session token, empty when logged out.
func (c *Client) Token() string { return c.currentToken() }

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}
