// Package clickup wraps the ClickUp v2 REST API.
//
// The client gates every outbound request through the sliding-window
// rate limiter in pkg/ratelimit and drives the limiter's bounded-retry
// protocol when the API answers 429 Too Many Requests, honoring the
// Retry-After header when the server supplies one.
//
// Endpoint methods are thin one-to-one wrappers; response structs carry
// only the fields the CLI renders.
package clickup
