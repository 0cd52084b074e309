package provider

import "fmt"

// Status codes that justify an automatic retry with backoff.
var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Status codes that make the chat orchestrator fall back to the default
// text provider within the same turn. These are auth/not-found conditions
// that no amount of retrying will fix.
var fallbackStatus = map[int]bool{
	401: true,
	403: true,
	404: true,
}

// UpstreamError is a non-2xx HTTP response from a provider. Callers branch
// on its classification methods instead of matching error strings.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the status is worth retrying.
func (e *UpstreamError) Transient() bool {
	return retryableStatus[e.StatusCode]
}

// AuthOrNotFound reports whether the status makes the turn eligible for
// same-turn fallback to another provider.
func (e *UpstreamError) AuthOrNotFound() bool {
	return fallbackStatus[e.StatusCode]
}

// TransportError is a connection-level failure that happened before any HTTP
// response was received. It carries the underlying transport message and is
// never retried on its own.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
