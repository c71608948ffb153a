// Package registry provides the HTTP client for the corporate registry
// API: company profiles, officer lists, officer search, and officer
// appointment lookups.
//
// # Consumption discipline
//
// Every HTTP round trip acquires a token from the shared sliding-window
// rate gate before it is sent, and an additional token-bucket throttle
// smooths bursts. Transient failures (network errors, 5xx) are retried
// with linear backoff up to a fixed attempt ceiling; 429 responses honor
// the server's Retry-After delay and are always retried without
// consuming an attempt. Paginated endpoints are fetched to exhaustion
// transparently, so callers see complete lists.
//
// The crawler consumes this package through a narrow interface and
// treats any exhausted-retry failure as a normal skip, never as a
// crawl-fatal error. Error classification (ErrNotFound, ThrottledError,
// TransientError) lives in errors.go so callers can branch with
// errors.Is and errors.As.
package registry
