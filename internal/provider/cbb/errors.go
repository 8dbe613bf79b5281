package cbb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Reason categorizes why a provider call failed.
type Reason string

const (
	ReasonTimeout      Reason = "timeout"
	ReasonRateLimited  Reason = "rate_limited"
	ReasonNotFound     Reason = "not_found"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonMalformed    Reason = "malformed_response"
	ReasonUnavailable  Reason = "unavailable"
)

// SourceError is the typed failure returned by every client method once
// retries are exhausted. Callers branch on Reason, not on error strings.
type SourceError struct {
	Endpoint string
	Reason   Reason
	Err      error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cbb %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("cbb %s: %s", e.Endpoint, e.Reason)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Transient reports whether the failure is worth retrying.
func (e *SourceError) Transient() bool {
	switch e.Reason {
	case ReasonTimeout, ReasonRateLimited, ReasonUnavailable:
		return true
	}
	return false
}

// FailureReason extracts the Reason from an error chain, defaulting to
// unavailable for errors that did not originate in this package.
func FailureReason(err error) Reason {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Reason
	}
	return ReasonUnavailable
}

// classifyTransport maps transport-level errors to a reason.
func classifyTransport(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonUnavailable
}

// classifyStatus maps a non-200 HTTP status to a reason.
func classifyStatus(code int) Reason {
	switch {
	case code == http.StatusTooManyRequests:
		return ReasonRateLimited
	case code == http.StatusNotFound:
		return ReasonNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ReasonUnauthorized
	case code >= 500:
		return ReasonUnavailable
	default:
		return ReasonMalformed
	}
}
