// Package attioapi is a thin client for the Attio REST API (v2). It carries
// no normalization logic: callers are expected to hand it canonical,
// already-validated parameters.
package attioapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.attio.com"

// APIError is the typed error surfaced for non-2xx Attio responses. The
// pipeline passes it through unchanged; no retries happen at this layer.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("attio api: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("attio api: %s (status %d)", e.Message, e.StatusCode)
}

// apiErrorBody is the error payload shape Attio returns.
type apiErrorBody struct {
	StatusCode int    `json:"status_code"`
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Client wraps the Attio REST API.
type Client struct {
	rc      *resty.Client
	objects *objectCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.rc.SetBaseURL(baseURL)
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.rc = resty.NewWithClient(hc).SetBaseURL(c.rc.BaseURL)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rc.SetTimeout(d)
	}
}

// NewClient creates an Attio API client authenticated with a workspace
// access token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		rc: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(30 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rc.
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	c.objects = newObjectCache(c)
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	var errBody apiErrorBody
	req.SetError(&errBody)
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("attio api request failed: %w", err)
	}
	if resp.IsError() {
		apiErr := &APIError{
			StatusCode: resp.StatusCode(),
			Code:       errBody.Code,
			Message:    errBody.Message,
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return apiErr
	}
	return nil
}
