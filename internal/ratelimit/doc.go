// Package ratelimit provides a sliding-window admission gate for
// outbound registry API calls.
//
// The registry enforces a hard quota of N requests per rolling window
// (600 per 5 minutes for the public API). Exceeding it returns 429
// responses and, repeated, can suspend the API key, so the Gate is the
// single shared pacing point for every HTTP round trip.
//
// Design decision: we keep an explicit timestamp window rather than
// using a token bucket (golang.org/x/time/rate) because the quota is a
// sliding-window contract: a bucket refilling at N/T admits bursts that
// can still overflow a particular window. The registry client layers a
// token-bucket throttle on top for smoothing, but the Gate is what
// guarantees the window invariant.
package ratelimit
