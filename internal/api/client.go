// Package api is the client for the remote REST API that publishes posts and
// users (jsonplaceholder-compatible). It is the boundary where JSON payloads
// are checked and turned into model records.
package api

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
	"time"
)

// DefaultBaseURL is the public API the stores are built against.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

var (
	// ErrTransport wraps network failures and non-success responses.
	ErrTransport = errors.New("api: transport failure")

	// ErrMalformedPayload wraps successful responses whose body is empty,
	// undecodable or missing required fields.
	ErrMalformedPayload = errors.New("api: malformed payload")
)

// StatusError reports a response whose status differs from the expected one.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
}

// Unwrap makes every StatusError match ErrTransport.
func (e *StatusError) Unwrap() error { return ErrTransport }

// Client talks to the remote API. Safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the API at baseURL.
// A nil httpClient gets a client with a 10 second timeout; a nil logger
// uses slog.Default().
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: u, httpClient: httpClient, logger: logger}, nil
}

// do sends a request with an optional JSON body and returns the response body
// when the status equals want.
func (c *Client) do(ctx context.Context, method string, path []string, body any, want int) ([]byte, error) {
	target := c.baseURL.JoinPath(path...).String()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, target, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, target, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, target, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "method", method, "url", target, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != want {
		return nil, &StatusError{Method: method, URL: target, Code: resp.StatusCode, Status: resp.Status}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %v", ErrTransport, method, target, err)
	}
	return raw, nil
}

// decode unmarshals a non-empty body into out.
func decode(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

// Ping checks that the API answers GET /users/1 with 200.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, []string{"users", "1"}, nil, http.StatusOK)
	return err
}
