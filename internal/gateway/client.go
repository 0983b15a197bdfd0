package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// RemoteError reports an upstream fetch that failed either at transport
// level (Err set, StatusCode zero) or with a non-2xx response.
type RemoteError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("remote request to %s returned status %d", e.URL, e.StatusCode)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// DecodeError reports a 2xx response whose body did not match the
// expected shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Client issues JSON requests against the fixed mock document endpoints.
// It carries no retry or caching behavior; fallbacks are the caller's job.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// GetJSON fetches url and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &RemoteError{URL: url, Err: err}
	}

	return c.do(req, out)
}

// PostJSON sends body as JSON to url and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &RemoteError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return &RemoteError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	url := req.URL.String()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", "url", url, "error", err)
		return &RemoteError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("upstream returned error status", "url", url, "status", resp.StatusCode)
		return &RemoteError{URL: url, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("upstream response malformed", "url", url, "error", err)
		return &DecodeError{URL: url, Err: err}
	}

	return nil
}
