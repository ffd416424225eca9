package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/davidshq/clickup-utils-sub000/pkg/logger"
)

func newTestLimiter(cfg Config) *RateLimiter {
	return New(cfg, logger.NewTestLogger())
}

func TestWaitIfNeededUnderLimit(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 5, MaxRetries: 3, AutoRetry: true})

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := rl.WaitIfNeeded(context.Background()); err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
	}

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("calls under the limit should not block, took %v", elapsed)
	}
	if got := rl.CurrentRequestCount(); got != 5 {
		t.Errorf("expected request count 5, got %d", got)
	}
}

func TestWaitIfNeededBlocksAtLimit(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 2, MaxRetries: 3, AutoRetry: true})
	rl.window = 200 * time.Millisecond

	for i := 0; i < 2; i++ {
		if err := rl.WaitIfNeeded(context.Background()); err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
	}

	start := time.Now()
	if err := rl.WaitIfNeeded(context.Background()); err != nil {
		t.Fatalf("blocked call failed: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 100*time.Millisecond {
		t.Errorf("third call should have waited for the window, took %v", elapsed)
	}
	if elapsed > 600*time.Millisecond {
		t.Errorf("third call waited longer than window plus buffer, took %v", elapsed)
	}
	if got := rl.CurrentRequestCount(); got < 1 {
		t.Errorf("expected at least the new admission recorded, got %d", got)
	}
}

func TestWindowPurge(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 3, MaxRetries: 3, AutoRetry: true})
	rl.window = 150 * time.Millisecond

	for i := 0; i < 3; i++ {
		if err := rl.WaitIfNeeded(context.Background()); err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
	}
	if got := rl.CurrentRequestCount(); got != 3 {
		t.Fatalf("expected request count 3, got %d", got)
	}

	time.Sleep(200 * time.Millisecond)
	if got := rl.CurrentRequestCount(); got != 0 {
		t.Errorf("expected entries to age out, got count %d", got)
	}
}

func TestWaitIfNeededWithAdvancedClock(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 3, BufferSeconds: 0, MaxRetries: 3, AutoRetry: true})

	current := time.Now()
	rl.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if err := rl.WaitIfNeeded(context.Background()); err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
	}
	if got := rl.CurrentRequestCount(); got != 3 {
		t.Fatalf("expected request count 3, got %d", got)
	}

	// All three admissions fall out of the window once the clock moves
	// past the 60s boundary; the fourth call must admit without any
	// real-time wait.
	current = current.Add(61 * time.Second)

	start := time.Now()
	if err := rl.WaitIfNeeded(context.Background()); err != nil {
		t.Fatalf("fourth call failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("fourth call should not block after clock advance, took %v", elapsed)
	}
	if got := rl.CurrentRequestCount(); got != 1 {
		t.Errorf("expected count 1 after purge, got %d", got)
	}
}

func TestSafetyValveUnsticksFrozenClock(t *testing.T) {
	log := logger.NewTestLogger()
	rl := New(Config{RequestsPerMinute: 1, BufferSeconds: 0, MaxRetries: 3, AutoRetry: true}, log)
	rl.window = 40 * time.Millisecond

	// A frozen clock never ages entries out, so without the valve the
	// second call would wait forever.
	frozen := time.Now()
	rl.now = func() time.Time { return frozen }

	if err := rl.WaitIfNeeded(context.Background()); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- rl.WaitIfNeeded(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("second call failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("safety valve did not unstick the limiter")
	}

	if !log.HasMessage("WARN", "clearing request history") {
		t.Error("expected safety valve warning to be logged")
	}
	if got := rl.CurrentRequestCount(); got != 1 {
		t.Errorf("expected count 1 after forced clear, got %d", got)
	}
}

func TestHandleRateLimitRetryBudget(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 10, BufferSeconds: 0, MaxRetries: 2, AutoRetry: true})

	for i := 1; i <= 2; i++ {
		if err := rl.HandleRateLimit(context.Background(), 10*time.Millisecond); err != nil {
			t.Fatalf("retry %d failed: %v", i, err)
		}
		if got := rl.CurrentRetryCount(); got != i {
			t.Errorf("expected retry count %d, got %d", i, got)
		}
	}

	start := time.Now()
	err := rl.HandleRateLimit(context.Background(), 10*time.Millisecond)
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("failing call should not sleep, took %v", elapsed)
	}
	// The failing call does not advance the counter.
	if got := rl.CurrentRetryCount(); got != 2 {
		t.Errorf("expected retry count to stay at 2, got %d", got)
	}
}

func TestHandleRateLimitAutoRetryDisabled(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 10, BufferSeconds: 0, MaxRetries: 5, AutoRetry: false})

	start := time.Now()
	err := rl.HandleRateLimit(context.Background(), time.Second)
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("disabled auto retry should fail without sleeping, took %v", elapsed)
	}
	if got := rl.CurrentRetryCount(); got != 0 {
		t.Errorf("expected retry count 0, got %d", got)
	}
}

func TestResetRetryCountAllowsNewCycle(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 10, BufferSeconds: 0, MaxRetries: 1, AutoRetry: true})

	if err := rl.HandleRateLimit(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("first retry failed: %v", err)
	}
	if err := rl.HandleRateLimit(context.Background(), 10*time.Millisecond); !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected exhausted budget, got %v", err)
	}

	rl.ResetRetryCount()
	if got := rl.CurrentRetryCount(); got != 0 {
		t.Fatalf("expected retry count 0 after reset, got %d", got)
	}
	if err := rl.HandleRateLimit(context.Background(), 10*time.Millisecond); err != nil {
		t.Errorf("fresh cycle should allow retries again: %v", err)
	}
}

func TestHandleRateLimitHonorsRetryAfter(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 10, BufferSeconds: 0, MaxRetries: 3, AutoRetry: true})

	start := time.Now()
	if err := rl.HandleRateLimit(context.Background(), 150*time.Millisecond); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 100*time.Millisecond {
		t.Errorf("expected sleep of roughly the Retry-After duration, took %v", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("slept far longer than Retry-After, took %v", elapsed)
	}
}

func TestHandleRateLimitPurgesHistory(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 3, BufferSeconds: 0, MaxRetries: 3, AutoRetry: true})
	rl.window = 100 * time.Millisecond

	for i := 0; i < 3; i++ {
		if err := rl.WaitIfNeeded(context.Background()); err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
	}

	if err := rl.HandleRateLimit(context.Background(), 150*time.Millisecond); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := rl.CurrentRequestCount(); got != 0 {
		t.Errorf("expected history purged after backoff, got count %d", got)
	}
}

func TestConcurrentAdmissions(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 50, MaxRetries: 3, AutoRetry: true})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- rl.WaitIfNeeded(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent admission failed: %v", err)
		}
	}
	if got := rl.CurrentRequestCount(); got != 20 {
		t.Errorf("expected request count 20, got %d", got)
	}
}

func TestWaitIfNeededCancellation(t *testing.T) {
	rl := newTestLimiter(Config{RequestsPerMinute: 1, BufferSeconds: 0, MaxRetries: 3, AutoRetry: true})

	if err := rl.WaitIfNeeded(context.Background()); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := rl.WaitIfNeeded(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation should interrupt the wait promptly, took %v", elapsed)
	}
}
