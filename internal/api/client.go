package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// basePath is the CLI-facing API prefix.
const basePath = "/api/v1/cli"

// TokenSource supplies the current bearer token, or "" when
// unauthenticated. The client re-reads it on every request so a token
// stored mid-flow (device login) is picked up immediately.
type TokenSource func() string

// EndpointSource supplies the current service root URL. Like TokenSource
// it is re-read on every request, so an endpoint persisted mid-command
// (login with an environment override) routes that command's own calls.
type EndpointSource func() string

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is a fixed service root, e.g. https://www.gitguard.net.
	BaseURL string

	// Endpoint supplies the service root per request. When non-nil it
	// takes precedence over BaseURL.
	Endpoint EndpointSource

	// Token supplies the bearer credential. May be nil.
	Token TokenSource

	// Timeout bounds a single request. Defaults to 60s.
	Timeout time.Duration

	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the GitGuard service. One instance per process; safe
// for the CLI's single thread of control, no retries beyond the explicit
// device-auth polling loop.
type Client struct {
	base     string
	endpoint EndpointSource
	token    TokenSource
	http     *http.Client
}

// NewClient creates a Client for the given configuration.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:     strings.TrimSuffix(cfg.BaseURL, "/") + basePath,
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http:     httpClient,
	}
}

// url resolves the request URL against the current endpoint.
func (c *Client) url(path string) string {
	if c.endpoint != nil {
		return strings.TrimSuffix(c.endpoint(), "/") + basePath + path
	}
	return c.base + path
}

// serverError is the service's JSON error envelope.
type serverError struct {
	Message string `json:"message"`
}

// errForbidden marks an HTTP 403. Only Login translates it further.
var errForbidden = errors.New("forbidden")

// RequestDeviceAuth starts a browser-based device-auth attempt.
func (c *Client) RequestDeviceAuth(ctx context.Context) (*DeviceAuthRequest, error) {
	var out DeviceAuthRequest
	if err := c.do(ctx, http.MethodPost, "/auth/request", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PollDeviceAuth checks one in-flight device-auth attempt. A 410 from the
// server means the request was invalidated and maps to ErrRequestExpired,
// the same outcome as an explicit "expired" status.
func (c *Client) PollDeviceAuth(ctx context.Context, requestCode string) (*DeviceAuthStatus, error) {
	var out DeviceAuthStatus
	if err := c.do(ctx, http.MethodGet, "/auth/poll/"+requestCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeToken invalidates the stored token server-side. Callers treat
// failure as non-fatal during logout.
func (c *Client) RevokeToken(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/revoke", nil, nil)
}

// Profile fetches the authenticated account document.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login performs an email/password login.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		if errors.Is(err, ErrAuthExpired) || errors.Is(err, errForbidden) {
			return nil, fmt.Errorf("%w: login rejected", ErrInvalidCredentials)
		}
		return nil, err
	}
	return &out, nil
}

// Scan submits files for analysis.
func (c *Client) Scan(ctx context.Context, req *ScanRequest) (*ScanResult, error) {
	var out ScanResult
	if err := c.do(ctx, http.MethodPost, "/scan", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one request and decodes the response into out (when non-nil).
// There is no retry here: the only repetition in the CLI is the explicit
// device-auth polling loop.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapError converts HTTP error responses to sentinel errors.
func (c *Client) mapError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var se serverError
	_ = json.Unmarshal(data, &se)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrAuthExpired
	case http.StatusForbidden:
		if se.Message != "" {
			return fmt.Errorf("%w: %s", errForbidden, se.Message)
		}
		return errForbidden
	case http.StatusGone:
		return ErrRequestExpired
	case http.StatusTooManyRequests:
		return &RateLimitError{Message: se.Message}
	}

	if se.Message != "" {
		return errors.New(se.Message)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
