// Package cbb provides the rate-limited HTTP client for the college
// basketball statistics provider, the primary data source for profile
// generation.
//
// The provider uses Bearer-token auth and flat JSON arrays. Rate limiting
// is handled via a token bucket limiter shared across all calls from one
// client instance, so concurrent generation runs serialize their requests
// toward the upstream.
package cbb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxAttempts    = 3
	initialBackoff = 2 * time.Second
	callTimeout    = 30 * time.Second
)

// Client is the shared HTTP client for all provider endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
	backoff    time.Duration
	calls      atomic.Int64
}

// NewClient creates a provider client with rate limiting.
func NewClient(baseURL, apiKey string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: callTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
		backoff:    initialBackoff,
	}
}

// SetTransport replaces the underlying HTTP transport. Used by tests.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// Calls returns the total number of HTTP requests issued by this client,
// including retries.
func (c *Client) Calls() int64 { return c.calls.Load() }

// get performs a rate-limited GET with retry on transient failures.
// Transient failures (timeout, 429, 5xx) are retried up to maxAttempts with
// exponential backoff; anything else fails immediately.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	var lastErr *SourceError

	backoff := c.backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &SourceError{Endpoint: path, Reason: ReasonTimeout, Err: fmt.Errorf("rate limit wait: %w", err)}
		}

		body, srcErr := c.doOnce(ctx, path, params)
		if srcErr == nil {
			return body, nil
		}
		lastErr = srcErr
		if !srcErr.Transient() {
			return nil, srcErr
		}

		if attempt < maxAttempts {
			c.logger.Warn("provider call failed, retrying",
				"endpoint", path, "attempt", attempt, "reason", srcErr.Reason, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &SourceError{Endpoint: path, Reason: ReasonTimeout, Err: ctx.Err()}
			}
			backoff *= 2
		}
	}

	return nil, lastErr
}

// doOnce issues a single HTTP request and classifies any failure.
func (c *Client) doOnce(ctx context.Context, path string, params url.Values) ([]byte, *SourceError) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &SourceError{Endpoint: path, Reason: ReasonMalformed, Err: fmt.Errorf("create request: %w", err)}
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.calls.Add(1)
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn("provider request error", "endpoint", path, "duration", elapsed, "error", err)
		return nil, &SourceError{Endpoint: path, Reason: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SourceError{Endpoint: path, Reason: ReasonMalformed, Err: fmt.Errorf("read response body: %w", err)}
	}

	c.logger.Debug("provider call", "endpoint", path, "status", resp.StatusCode, "duration", elapsed)

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{
			Endpoint: path,
			Reason:   classifyStatus(resp.StatusCode),
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}
	return body, nil
}

// getJSON fetches an endpoint and decodes into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &SourceError{Endpoint: path, Reason: ReasonMalformed, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
