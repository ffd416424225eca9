package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/davidshq/clickup-utils-sub000/pkg/logger"
)

const (
	// defaultWindow is the lookback interval for the sliding window
	defaultWindow = time.Minute

	// maxComputedWait caps a single computed wait duration
	maxComputedWait = 2 * time.Minute

	// maxConsecutiveWaits is the anti-starvation cap: after this many
	// waits without an admission the history is forcibly cleared
	maxConsecutiveWaits = 10

	// defaultRetryAfter is used when the server supplies no Retry-After
	defaultRetryAfter = time.Minute

	// slicedWaitThreshold: waits longer than this are performed in
	// one-second slices so cancellation stays responsive
	slicedWaitThreshold = 10 * time.Second

	waitSlice        = time.Second
	progressInterval = 5 * time.Second
)

// ErrRateLimitExceeded is returned by HandleRateLimit when retries are
// exhausted or auto-retry is disabled. It is the only error the limiter
// produces apart from context cancellation.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Config holds the rate limiter settings. It is read-only after
// construction.
type Config struct {
	// RequestsPerMinute is the ceiling on admissions per rolling
	// 60-second window.
	RequestsPerMinute int
	// BufferSeconds is extra delay added to every computed wait to
	// absorb clock skew between client and server.
	BufferSeconds int
	// MaxRetries is the ceiling on consecutive throttling retries for a
	// single logical request.
	MaxRetries int
	// AutoRetry disables the retry protocol entirely when false: a
	// throttling signal becomes a terminal error immediately.
	AutoRetry bool
}

// DefaultConfig returns limiter settings matching the ClickUp free tier.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 100,
		BufferSeconds:     5,
		MaxRetries:        3,
		AutoRetry:         true,
	}
}

// RateLimiter admits or delays outbound requests based on a sliding
// one-minute window of past request timestamps, and manages bounded
// retries when the server explicitly signals throttling.
//
// The request history and retry counter are shared across all logical
// requests using the same limiter instance; every read-modify-write
// sequence happens under one mutex acquisition.
type RateLimiter struct {
	cfg Config
	log logger.Logger

	mu         sync.Mutex
	requests   []time.Time // admission timestamps, non-decreasing
	retryCount int

	// overridable in tests
	window time.Duration
	now    func() time.Time
}

// New creates a rate limiter. A nil logger falls back to the global one.
func New(cfg Config, log logger.Logger) *RateLimiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &RateLimiter{
		cfg:      cfg,
		log:      log,
		requests: make([]time.Time, 0, cfg.RequestsPerMinute),
		window:   defaultWindow,
		now:      time.Now,
	}
}

// WaitIfNeeded blocks until the request can be admitted under the
// requests-per-minute ceiling, then records the admission. It only
// fails when ctx is cancelled; the anti-starvation valve guarantees the
// loop cannot block forever even under pathological clock behavior.
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	consecutiveWaits := 0

	for {
		rl.mu.Lock()
		now := rl.now()
		rl.purge(now)

		if len(rl.requests) < rl.cfg.RequestsPerMinute {
			rl.requests = append(rl.requests, now)
			rl.mu.Unlock()
			return nil
		}

		consecutiveWaits++
		if consecutiveWaits > maxConsecutiveWaits {
			// Safety valve: too many waits without an admission.
			// Clearing the history briefly overshoots the ceiling but
			// keeps the caller live.
			rl.log.WarnWithFields("rate limiter stuck, clearing request history", map[string]interface{}{
				"consecutive_waits": consecutiveWaits - 1,
				"request_count":     len(rl.requests),
			})
			rl.requests = rl.requests[:0]
			consecutiveWaits = 0
			rl.mu.Unlock()
			continue
		}

		oldest := rl.requests[0]
		count := len(rl.requests)
		rl.mu.Unlock()

		wait := rl.window - now.Sub(oldest) + rl.buffer()
		if wait > maxComputedWait {
			wait = maxComputedWait
		}
		if wait < 0 {
			wait = 0
		}

		rl.log.DebugWithFields("rate limit reached, waiting", map[string]interface{}{
			"current_requests":    count,
			"requests_per_minute": rl.cfg.RequestsPerMinute,
			"wait":                wait.Round(time.Millisecond).String(),
		})

		if err := rl.sleep(ctx, wait); err != nil {
			return err
		}
		// Time has passed and other requests may have landed; re-evaluate.
	}
}

// HandleRateLimit is called after the server explicitly rejected a
// request as throttled. retryAfter is the server-supplied Retry-After
// duration; zero or negative means none was supplied and the default
// applies. A nil return means the caller should resend the request;
// ErrRateLimitExceeded means the caller must give up.
//
// Failing calls do not advance the retry counter, so after a failure
// CurrentRetryCount still reads the number of successful retries.
func (rl *RateLimiter) HandleRateLimit(ctx context.Context, retryAfter time.Duration) error {
	rl.mu.Lock()
	if rl.retryCount >= rl.cfg.MaxRetries {
		count := rl.retryCount
		rl.mu.Unlock()
		return fmt.Errorf("%w: %d retries exhausted", ErrRateLimitExceeded, count)
	}
	if !rl.cfg.AutoRetry {
		rl.mu.Unlock()
		return fmt.Errorf("%w: auto retry disabled", ErrRateLimitExceeded)
	}
	rl.retryCount++
	attempt := rl.retryCount
	rl.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}
	wait := retryAfter + rl.buffer()

	rl.log.WarnWithFields("server throttled request, backing off", map[string]interface{}{
		"attempt":     attempt,
		"max_retries": rl.cfg.MaxRetries,
		"wait":        wait.Round(time.Millisecond).String(),
	})

	if err := rl.sleep(ctx, wait); err != nil {
		return err
	}

	// Drop stale pressure so the next WaitIfNeeded starts from a clean
	// view of the window.
	rl.mu.Lock()
	rl.purge(rl.now())
	rl.mu.Unlock()

	return nil
}

// ResetRetryCount zeroes the retry counter. Callers invoke this at the
// start of each new logical request, before any HandleRateLimit calls
// for that request.
func (rl *RateLimiter) ResetRetryCount() {
	rl.mu.Lock()
	rl.retryCount = 0
	rl.mu.Unlock()
}

// CurrentRequestCount reports the window occupancy after purging
// entries that have aged out.
func (rl *RateLimiter) CurrentRequestCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.purge(rl.now())
	return len(rl.requests)
}

// CurrentRetryCount reports the retry counter without mutating it.
func (rl *RateLimiter) CurrentRetryCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.purge(rl.now())
	return rl.retryCount
}

func (rl *RateLimiter) buffer() time.Duration {
	return time.Duration(rl.cfg.BufferSeconds) * time.Second
}

// purge drops history entries older than the window. Caller holds mu.
func (rl *RateLimiter) purge(now time.Time) {
	cutoff := now.Add(-rl.window)

	i := 0
	for i < len(rl.requests) && rl.requests[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		copy(rl.requests, rl.requests[i:])
		rl.requests = rl.requests[:len(rl.requests)-i]
	}
}

// sleep suspends for d or until ctx is done. Long waits are sliced into
// one-second intervals with periodic progress logging.
func (rl *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	if d <= slicedWaitThreshold {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	ticker := time.NewTicker(waitSlice)
	defer ticker.Stop()

	var elapsed time.Duration
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			elapsed += waitSlice
			if elapsed >= d {
				return nil
			}
			if elapsed%progressInterval == 0 {
				rl.log.InfoWithFields("waiting for rate limit", map[string]interface{}{
					"elapsed":   elapsed.String(),
					"remaining": (d - elapsed).Round(time.Second).String(),
				})
			}
		}
	}
}
