// Package gateway performs authenticated GET requests against the remote
// content API and decodes their bodies.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxBodySize = 10 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenProvider supplies the current access token. It is consulted on every
// request; an empty token means the caller is not signed in.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed token.
type StaticToken string

// Token returns the token itself.
func (s StaticToken) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// Params are query parameters. Nil values and empty strings are omitted.
type Params map[string]any

// Response is a decoded successful response. Body is the decoded JSON value
// (objects as map[string]any, numbers as json.Number) or the raw text for
// non-JSON responses. An empty body decodes to an empty object.
type Response struct {
	Body   any
	URL    string
	Status int
}

// Client talks to the content API at a fixed base URL.
type Client struct {
	baseURL string
	tokens  TokenProvider
	client  HTTPClient
	log     *slog.Logger
}

// New creates a Client. A nil client uses http.DefaultClient.
func New(baseURL string, tokens TokenProvider, client HTTPClient, log *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		tokens:  tokens,
		client:  client,
		log:     log,
	}
}

// NewHTTPClient returns an http.Client with the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Get performs an authenticated GET of path with params. Configuration and
// authentication problems are reported before any network traffic.
func (c *Client) Get(ctx context.Context, path string, params Params) (*Response, error) {
	if c.baseURL == "" {
		return nil, &ConfigurationError{Reason: "API base URL is not set"}
	}
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	u, err := c.buildURL(path, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("request failed", "url", u, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	body := decodeBody(raw, resp.Header.Get("Content-Type"))

	c.log.Debug("request done",
		"url", u,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailedError{
			Status:  resp.StatusCode,
			Message: failureMessage(body, resp.StatusCode),
			URL:     u,
		}
	}
	return &Response{Body: body, URL: u, Status: resp.StatusCode}, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", &AuthRequiredError{Code: CodeAuthRequired}
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		var authErr *AuthRequiredError
		if errors.As(err, &authErr) {
			return "", err
		}
		return "", fmt.Errorf("resolve token: %w", err)
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", &AuthRequiredError{Code: CodeAuthRequired}
	}
	return token, nil
}

func (c *Client) buildURL(path string, params Params) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", &ConfigurationError{Reason: fmt.Sprintf("invalid URL %q: %v", c.baseURL+path, err)}
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &ConfigurationError{Reason: fmt.Sprintf("API base URL %q is not absolute", c.baseURL)}
	}

	q := u.Query()
	for k, v := range params {
		if v == nil {
			continue
		}
		s := fmt.Sprint(v)
		if s == "" {
			continue
		}
		q.Set(k, s)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodeBody decodes JSON bodies and returns anything else as text. A JSON
// content type with an unparsable body also falls back to text.
func decodeBody(raw []byte, contentType string) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}
	}
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return string(raw)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	return v
}

// failureMessage picks the message field, then the error field of a JSON
// object body, then a non-JSON body's text.
func failureMessage(body any, status int) string {
	switch b := body.(type) {
	case map[string]any:
		for _, key := range []string{"message", "error"} {
			if s, ok := b[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case string:
		if text := strings.TrimSpace(b); text != "" {
			return text
		}
	}
	return fmt.Sprintf("Request failed (%d)", status)
}
