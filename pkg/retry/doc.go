// Package retry provides backoff and retry logic for transient
// failures when talking to the ClickUp API.
//
// It handles network errors and 5xx responses. It deliberately does
// NOT handle 429 throttling responses: those go through the rate
// limiter's bounded-retry protocol (see pkg/ratelimit), which tracks a
// separate retry budget and honors the server's Retry-After header.
package retry
