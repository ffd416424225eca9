// Package ratelimit gates outbound ClickUp API requests.
//
// The limiter keeps a sliding one-minute window of admission timestamps
// and blocks callers once the configured requests-per-minute ceiling is
// reached. A sliding window (rather than a fixed-minute bucket) avoids
// bursts at window boundaries.
//
// It also implements the bounded-retry protocol for server-side
// throttling: when the API answers 429, the caller hands the parsed
// Retry-After duration to HandleRateLimit, which sleeps and reports
// whether the request should be resent or abandoned.
//
// Call contract with the HTTP client:
//
//	limiter.ResetRetryCount()            // fresh logical request
//	for {
//	    if err := limiter.WaitIfNeeded(ctx); err != nil {
//	        return err
//	    }
//	    resp := send()
//	    if resp.StatusCode != http.StatusTooManyRequests {
//	        break
//	    }
//	    if err := limiter.HandleRateLimit(ctx, retryAfter(resp)); err != nil {
//	        return err // terminal: ErrRateLimitExceeded
//	    }
//	}
//
// All state is safe for concurrent use; multiple logical requests may
// be in flight against one limiter. Note that the retry counter is
// shared between them, so concurrent throttled requests draw from the
// same retry budget.
package ratelimit
