package cbb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// scriptedTransport returns one canned response per call, in order,
// repeating the last entry once the script runs out.
type scriptedTransport struct {
	script []scriptedResponse
	hits   atomic.Int32
}

type scriptedResponse struct {
	status int
	body   string
	err    error
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	n := int(s.hits.Add(1)) - 1
	if n >= len(s.script) {
		n = len(s.script) - 1
	}
	step := s.script[n]
	if step.err != nil {
		return nil, step.err
	}
	return &http.Response{
		StatusCode: step.status,
		Body:       io.NopCloser(bytes.NewBufferString(step.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func newTestClient(script ...scriptedResponse) (*Client, *scriptedTransport) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// High request rate so the limiter never delays a test.
	c := NewClient("http://provider.test", "test-key", 60000, logger)
	c.backoff = time.Millisecond
	rt := &scriptedTransport{script: script}
	c.SetTransport(rt)
	return c, rt
}

func TestGetTeamMetaSuccess(t *testing.T) {
	t.Parallel()

	client, rt := newTestClient(scriptedResponse{
		status: http.StatusOK,
		body:   `[{"team":"Westview","mascot":"Wolves","conference":"Big West","season":2026}]`,
	})

	meta, err := client.GetTeamMeta(context.Background(), "Westview", 2026)
	assert.NoError(t, err)
	assert.Equal(t, "Westview", meta.Team)
	assert.Equal(t, "Big West", meta.Conference)
	assert.Equal(t, int32(1), rt.hits.Load())
	assert.Equal(t, int64(1), client.Calls())
}

func TestGetTeamsList(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(scriptedResponse{
		status: http.StatusOK,
		body:   `[{"team":"Westview","conference":"Big West"},{"team":"Eastview","conference":"Big West"}]`,
	})

	teams, err := client.GetTeams(context.Background(), "Big West", 2026)
	assert.NoError(t, err)
	assert.Len(t, teams, 2)
	assert.Equal(t, "Eastview", teams[1].Team)
}

func TestRetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()

	client, rt := newTestClient(
		scriptedResponse{status: http.StatusTooManyRequests, body: `slow down`},
		scriptedResponse{status: http.StatusInternalServerError, body: `oops`},
		scriptedResponse{status: http.StatusOK, body: `[{"team":"Westview","season":2026}]`},
	)

	meta, err := client.GetTeamMeta(context.Background(), "Westview", 2026)
	assert.NoError(t, err)
	assert.Equal(t, "Westview", meta.Team)
	assert.Equal(t, int32(3), rt.hits.Load())
}

func TestRetriesExhausted(t *testing.T) {
	t.Parallel()

	client, rt := newTestClient(
		scriptedResponse{status: http.StatusServiceUnavailable, body: `down`},
	)

	_, err := client.GetRoster(context.Background(), "Westview", 2026)
	var se *SourceError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, ReasonUnavailable, se.Reason)
	assert.Equal(t, int32(maxAttempts), rt.hits.Load())
}

func TestPermanentFailureNoRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		wantReason Reason
	}{
		{"not found", http.StatusNotFound, ReasonNotFound},
		{"unauthorized", http.StatusUnauthorized, ReasonUnauthorized},
		{"forbidden", http.StatusForbidden, ReasonUnauthorized},
		{"unexpected 4xx", http.StatusBadRequest, ReasonMalformed},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, rt := newTestClient(scriptedResponse{status: tt.status, body: `nope`})

			_, err := client.GetGameLog(context.Background(), "Westview", 2026)
			var se *SourceError
			assert.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantReason, se.Reason)
			assert.False(t, se.Transient())
			assert.Equal(t, int32(1), rt.hits.Load(), "permanent failures must not retry")
		})
	}
}

func TestMalformedBody(t *testing.T) {
	t.Parallel()

	client, rt := newTestClient(scriptedResponse{status: http.StatusOK, body: `{not json`})

	_, err := client.GetRankings(context.Background(), "Westview", 2026)
	var se *SourceError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, ReasonMalformed, se.Reason)
	assert.Equal(t, int32(1), rt.hits.Load())
}

func TestTimeoutIsTransient(t *testing.T) {
	t.Parallel()

	client, rt := newTestClient(scriptedResponse{err: context.DeadlineExceeded})

	_, err := client.GetRoster(context.Background(), "Westview", 2026)
	var se *SourceError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, ReasonTimeout, se.Reason)
	assert.True(t, se.Transient())
	assert.Equal(t, int32(maxAttempts), rt.hits.Load())
}

func TestEmptyResultIsNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(scriptedResponse{status: http.StatusOK, body: `[]`})

	_, err := client.GetPlayerSeasonStats(context.Background(), "Nobody", 2024)
	assert.Equal(t, ReasonNotFound, FailureReason(err))
}

func TestFailureReasonDefaultsToUnavailable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ReasonUnavailable, FailureReason(errors.New("plain error")))
}
