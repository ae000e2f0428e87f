package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means no API key was provided. Never retried.
	ErrNotConfigured = errors.New("gateway: api key not configured")
	// ErrRateLimited is upstream status 429.
	ErrRateLimited = errors.New("gateway: rate limited")
	// ErrQuotaExhausted is upstream status 402.
	ErrQuotaExhausted = errors.New("gateway: credits exhausted")
	// ErrGateway covers every other upstream failure: transport errors,
	// unexpected statuses and undecodable responses.
	ErrGateway = errors.New("gateway: upstream error")
	// ErrNoToolCall means the reply carried no invocation of the forced tool.
	ErrNoToolCall = errors.New("gateway: no structured result")
	// ErrMalformedResult means the tool arguments were not a JSON object.
	ErrMalformedResult = errors.New("gateway: malformed structured result")
)

// StatusError records a non-2xx upstream reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: upstream status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps the status onto the sentinel errors so callers can use errors.Is.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case 429:
		return ErrRateLimited
	case 402:
		return ErrQuotaExhausted
	default:
		return ErrGateway
	}
}
