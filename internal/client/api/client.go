// Package api implements the HTTP+JSON client for the RootPulse portal API.
// It owns the bearer credential pair, attaches it to outgoing requests, and
// normalizes failures into *Error values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rootpulse/pulse-cli/internal/common"
)

// Client issues requests against a single configured base URL.
//
// The credential pair is a single mutable cell: SetCredentials replaces it
// for all subsequent requests and has no effect on requests already in
// flight.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	accessExpiry time.Time
}

// New constructs a Client for the given base URL, e.g.
// "http://localhost:8000/api/v1". A zero timeout means no client-side
// request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SetCredentials installs the bearer credential pair used for subsequent
// requests. The refresh token may be empty, in which case expired sessions
// simply fail with 401.
func (c *Client) SetCredentials(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = access
	c.refreshToken = refresh
	c.accessExpiry = tokenExpiry(access)
}

// ClearCredentials drops the credential pair. Subsequent requests go out
// unauthenticated.
func (c *Client) ClearCredentials() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = ""
	c.refreshToken = ""
	c.accessExpiry = time.Time{}
}

func (c *Client) credentials() (access, refresh string, expiry time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken, c.accessExpiry
}

// tokenExpiry reads the exp claim from a JWT without verifying its
// signature. The client never validates tokens, it only uses the expiry to
// refresh proactively. Returns the zero time when the token is opaque.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// call describes one API request. noRefresh marks the auth endpoints, on
// which the refresh-and-retry behavior must never be applied.
type call struct {
	method         string
	path           string
	query          url.Values
	body           any
	out            any
	idempotencyKey string
	noRefresh      bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	access, refresh, expiry := c.credentials()

	// Proactive refresh: an access token known to be expired will be
	// rejected anyway, so swap it first when a refresh token is held.
	if !cl.noRefresh && refresh != "" && !expiry.IsZero() && time.Now().After(expiry) {
		if err := c.refresh(ctx, refresh); err == nil {
			access, _, _ = c.credentials()
		}
	}

	err := c.doOnce(ctx, cl, access)
	if err == nil {
		return nil
	}

	// Reactive refresh: one retry after a 401, once, never on auth calls.
	var apiErr *Error
	if cl.noRefresh || refresh == "" || !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}
	if rErr := c.refresh(ctx, refresh); rErr != nil {
		return err
	}
	access, _, _ = c.credentials()
	return c.doOnce(ctx, cl, access)
}

func (c *Client) doOnce(ctx context.Context, cl call, access string) error {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var reqBody io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if cl.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", cl.idempotencyKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}

	if cl.out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Message: fallbackMessage}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}

// refresh exchanges the refresh token for a new access token and installs
// it. The refresh token itself is kept.
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.doOnce(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/refresh",
		body:      map[string]string{"refresh_token": refreshToken},
		out:       &out,
		noRefresh: true,
	}, "")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = out.AccessToken
	c.accessExpiry = tokenExpiry(out.AccessToken)
	return nil
}
