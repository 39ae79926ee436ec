// Package api is the typed HTTP client for the Athena admin API. Every
// request carries the session bearer token and the active project scope
// when they are set, and neither header when they are not.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/athena-gateway/console/scope"
	"github.com/athena-gateway/console/session"
)

const (
	headerProjectID = "X-Project-ID"
	headerRequestID = "X-Request-ID"
)

// Client issues requests against a single Athena API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *session.Store
	scopes     *scope.Store
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client bound to the session and scope stores it reads its
// request headers from.
func New(baseURL string, sessions *session.Store, scopes *scope.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sessions:   sessions,
		scopes:     scopes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs an HTTP request and decodes the JSON response into result.
// Non-2xx responses are returned as *Error carrying the server's
// `{"error": ...}` payload when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] marshal request body")
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return errors.Wrap(err, "[Client.do] new request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.New().String())

	if token := c.sessions.State().Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if projectID := c.scopes.Get(); projectID != scope.None {
		req.Header.Set(headerProjectID, projectID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Err(err).Str("method", method).Str("url", url).Msg("request failed")
		return errors.Wrap(err, "[Client.do] request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "[Client.do] read response body")
	}

	log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return errors.Wrap(err, "[Client.do] decode response")
		}
	}
	return nil
}
