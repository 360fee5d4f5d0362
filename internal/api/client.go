// Package api is the remote accessor for the meal-logging API. It owns
// request plumbing (headers, bearer token, body handling) and normalizes
// error and empty-body responses into a uniform outcome; all business
// logic lives on the server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"meallog/internal/session"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	session *session.Store
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithTimeout sets an overall per-request timeout. The default is zero:
// failure is driven entirely by the transport's own resolution.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// New creates a client for the API at baseURL. The session store is
// passed in explicitly; the client reads the token per request and
// clears it on 401.
func New(baseURL string, sess *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		session: sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the JSON response into out (which may be
// nil). A 304 yields ErrNotModified.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Send issues a write request (POST/PATCH/PUT/DELETE) with an optional
// JSON body and decodes the response into out (which may be nil).
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.session.AuthHeader(ctx) {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Transport-level failure, including context cancellation.
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	// Read the full body before interpreting anything.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", url, err)
	}
	text := string(raw)

	if looksLikeHTML(resp.Header.Get("Content-Type"), text) {
		return &HTMLResponseError{Status: resp.StatusCode, URL: url}
	}

	if resp.StatusCode == http.StatusNotModified {
		return ErrNotModified
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			// Forced logout. Navigation is up to the caller.
			slog.InfoContext(ctx, "Session rejected by API, clearing token", "url", url)
			c.session.Clear(ctx)
		}
		return &StatusError{Status: resp.StatusCode, Message: errorMessage(text, resp.StatusCode)}
	}

	if len(strings.TrimSpace(text)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{URL: url, Err: err}
	}
	return nil
}

// looksLikeHTML guards against deployments that silently answer JSON
// routes with an HTML page.
func looksLikeHTML(contentType, body string) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(body), "<")
}

// errorMessage extracts the most useful failure text from an error body:
// joined `errors`, then `message`, then the status text; an unparsable
// body is used verbatim.
func errorMessage(text string, status int) string {
	var payload struct {
		Errors  []string `json:"errors"`
		Message string   `json:"message"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		if len(payload.Errors) > 0 {
			return strings.Join(payload.Errors, ", ")
		}
		if payload.Message != "" {
			return payload.Message
		}
		return http.StatusText(status)
	}
	if strings.TrimSpace(text) != "" {
		return text
	}
	return http.StatusText(status)
}
