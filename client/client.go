// Package client is the typed Go SDK for the FitDesk dashboard API. All
// responses travel in a single envelope: {"data": ...} on success and
// {"error": {"code", "message", "details"}} on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// APIError is the typed error envelope returned by the server.
type APIError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Client talks to one FitDesk API deployment. It is safe for concurrent use
// once configured; Login and Logout swap the session and should not race
// with in-flight calls.
type Client struct {
	baseURL string
	httpc   *http.Client
	session *Session
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New builds a client against the given base URL, e.g. "https://api.fitdesk.example".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the current session, or nil when logged out.
func (c *Client) Session() *Session {
	return c.session
}

// Login authenticates and initializes the session used by every subsequent call.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.session = &Session{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	user := out.User
	return &user, nil
}

// Refresh rotates the refresh token and swaps in the new pair.
func (c *Client) Refresh(ctx context.Context) error {
	session, err := c.requireSession()
	if err != nil {
		return err
	}
	var out loginResponse
	err = c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, map[string]string{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	}, &out)
	if err != nil {
		return err
	}
	c.session = &Session{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	return nil
}

// Logout revokes the server session and clears the local one. The local
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, nil)
	c.session = nil
	return err
}

type ctxKey int

const ctxIdempotencyKey ctxKey = iota

// WithIdempotencyKey pins the Idempotency-Key header sent with the next
// mutating call. Reusing the same key lets a caller repeat a money-moving
// request safely; without it the client mints a fresh key per call.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxIdempotencyKey, key)
}

func (c *Client) requireSession() (*Session, error) {
	if c.session == nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "not logged in"}
	}
	return c.session, nil
}

// do performs one request. There is deliberately no retry: callers decide
// whether repeating a money-moving call is safe.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}
	if method != http.MethodGet && method != http.MethodHead {
		key, _ := ctx.Value(ctxIdempotencyKey).(string)
		if key == "" {
			key = uuid.NewString()
		}
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error *APIError `json:"error"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error == nil {
			return &APIError{Status: resp.StatusCode, Code: "INTERNAL_ERROR", Message: http.StatusText(resp.StatusCode)}
		}
		envelope.Error.Status = resp.StatusCode
		return envelope.Error
	}

	if out == nil {
		return nil
	}

	// Raw-byte outputs skip the envelope, used for invoice downloads.
	if sink, ok := out.(*[]byte); ok {
		*sink = raw
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
