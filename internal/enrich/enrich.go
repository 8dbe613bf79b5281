// Package enrich defines the uniform adapter contract for optional data
// sources and the four adapters behind it. Adapters never let an error or
// panic escape: every outcome is a Result, and a source that is not
// configured reports skipped without touching the network.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"teamscout/internal/profile"
)

// Result is the outcome of one adapter invocation. Data is non-nil only on
// success and holds the adapter's whole enrichment block.
type Result struct {
	Status  string
	Message string
	Data    any
}

// Adapter is the pluggable enrichment contract. New sources are added by
// implementing it; nothing else changes.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, team string, season int) Result
}

// Invoke runs one adapter, converting a panic into a failed Result so a
// misbehaving source can never take down the pipeline.
func Invoke(ctx context.Context, a Adapter, team string, season int) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failed(fmt.Sprintf("panic: %v", r))
		}
	}()
	return a.Fetch(ctx, team, season)
}

// Success builds a success result carrying the adapter's block.
func Success(message string, data any) Result {
	return Result{Status: profile.StatusSuccess, Message: message, Data: data}
}

// Failed builds a runtime-failure result.
func Failed(reason string) Result {
	return Result{Status: profile.StatusFailed, Message: reason}
}

// Skipped builds a not-configured result, distinct from failed so
// operators can tell "broken" from "not set up".
func Skipped(reason string) Result {
	return Result{Status: profile.StatusSkipped, Message: reason}
}

const notConfigured = "not configured"

// defaultHTTPClient applies the per-call ceiling adapters fall back to when
// the pipeline context carries no tighter deadline.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// getJSON fetches a URL and decodes the JSON body into out. Adapters do no
// retries; one failed call is one failed invocation.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
