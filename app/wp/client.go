package wp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// invalidTokenMarker appears in the response body when the CMS rejects an
// expired or revoked JWT.
const invalidTokenMarker = "jwt_auth_invalid_token"

// Client talks to a WordPress-style CMS over its REST API using JWT
// authentication. A token is obtained lazily and refreshed exactly once
// when the CMS reports it invalid mid-request.
type Client struct {
	baseURL    string
	username   string
	password   string
	userAgent  string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(baseURL, username, password, userAgent string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		username:  username,
		password:  password,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/wp-json/jwt-auth/v1/token", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth failed with status %d", resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("auth response contains no token")
	}

	return parsed.Token, nil
}

func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	return token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	headers     map[string]string
}

// do executes an authenticated request. When the CMS answers 403 with the
// invalid-token marker, the token is refreshed and the request retried
// exactly once.
func (c *Client) do(ctx context.Context, r request) (int, []byte, error) {
	status, body, err := c.doOnce(ctx, r)
	if err != nil {
		return 0, nil, err
	}

	if status == http.StatusForbidden && strings.Contains(string(body), invalidTokenMarker) {
		slog.Info("CMS token expired, re-authenticating")
		c.invalidateToken()
		return c.doOnce(ctx, r)
	}

	return status, body, nil
}

func (c *Client) doOnce(ctx context.Context, r request) (int, []byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, bytes.NewReader(r.body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("CMS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read CMS response: %w", err)
	}

	return resp.StatusCode, body, nil
}
