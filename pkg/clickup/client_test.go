package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/davidshq/clickup-utils-sub000/pkg/config"
	errs "github.com/davidshq/clickup-utils-sub000/pkg/errors"
	"github.com/davidshq/clickup-utils-sub000/pkg/logger"
	"github.com/davidshq/clickup-utils-sub000/pkg/ratelimit"
	"github.com/davidshq/clickup-utils-sub000/pkg/retry"
)

func newTestClient(serverURL string, rl config.RateLimitConfig) *Client {
	cfg := config.DefaultConfig()
	cfg.API.Token = "pk_test_token"
	cfg.API.BaseURL = serverURL
	cfg.API.TimeoutSeconds = 5
	cfg.RateLimit = rl

	return NewClient(cfg, logger.NewTestLogger())
}

func defaultRL() config.RateLimitConfig {
	return config.RateLimitConfig{
		RequestsPerMinute: 100,
		BufferSeconds:     0,
		MaxRetries:        3,
		AutoRetry:         true,
	}
}

func TestGetAuthorizedTeams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/team" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "pk_test_token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"teams": []map[string]interface{}{
				{"id": "9001", "name": "Acme"},
				{"id": "9002", "name": "Globex"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, defaultRL())

	teams, err := client.GetAuthorizedTeams(context.Background())
	if err != nil {
		t.Fatalf("GetAuthorizedTeams failed: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
	if teams[0].ID != "9001" || teams[0].Name != "Acme" {
		t.Errorf("unexpected first team: %+v", teams[0])
	}
	if got := client.Limiter().CurrentRequestCount(); got != 1 {
		t.Errorf("expected 1 admission recorded, got %d", got)
	}
}

func TestThrottledRequestIsResent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"teams": []map[string]interface{}{{"id": "9001", "name": "Acme"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, defaultRL())

	start := time.Now()
	teams, err := client.GetAuthorizedTeams(context.Background())
	if err != nil {
		t.Fatalf("expected resend to succeed: %v", err)
	}
	if len(teams) != 1 {
		t.Fatalf("expected 1 team, got %d", len(teams))
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 server calls, got %d", got)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("expected Retry-After to be honored, took only %v", elapsed)
	}
}

func TestThrottleRetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	rl := defaultRL()
	rl.MaxRetries = 0
	client := newTestClient(server.URL, rl)

	_, err := client.GetAuthorizedTeams(context.Background())
	if !errors.Is(err, ratelimit.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}

	var apiErr *errs.Error
	if !errors.As(err, &apiErr) || apiErr.Type != errs.ErrorTypeRateLimit {
		t.Errorf("expected typed rate limit error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected a single server call, got %d", got)
	}
}

func TestAutoRetryDisabledFailsImmediately(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	rl := defaultRL()
	rl.AutoRetry = false
	client := newTestClient(server.URL, rl)

	start := time.Now()
	_, err := client.GetAuthorizedTeams(context.Background())
	if !errors.Is(err, ratelimit.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("disabled auto retry must not sleep, took %v", elapsed)
	}
}

func TestAuthErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, defaultRL())

	_, err := client.GetTask(context.Background(), "abc123")
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected typed error, got %v", err)
	}
	if apiErr.Type != errs.ErrorTypeAuth {
		t.Errorf("expected auth error, got %s", apiErr.Type)
	}
	if apiErr.Code != http.StatusUnauthorized {
		t.Errorf("expected code 401, got %d", apiErr.Code)
	}
}

func TestNotFoundMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, defaultRL())

	_, err := client.GetTask(context.Background(), "missing")
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) || apiErr.Type != errs.ErrorTypeNotFound {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"teams": []map[string]interface{}{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, defaultRL())
	client.retryCfg.Backoff = &retry.ConstantBackoff{Delay: 10 * time.Millisecond}

	if _, err := client.GetAuthorizedTeams(context.Background()); err != nil {
		t.Fatalf("expected retries to recover: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 server calls, got %d", got)
	}
}

func TestCreateTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/list/42/task" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if req.Name != "write release notes" {
			t.Errorf("unexpected task name: %q", req.Name)
		}

		json.NewEncoder(w).Encode(Task{
			ID:     "t1",
			Name:   req.Name,
			Status: TaskStatus{Status: "to do"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, defaultRL())

	task, err := client.CreateTask(context.Background(), "42", &CreateTaskRequest{Name: "write release notes"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID != "t1" || task.Status.Status != "to do" {
		t.Errorf("unexpected task: %+v", task)
	}
}

func TestDeleteTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL, defaultRL())

	if err := client.DeleteTask(context.Background(), "t1"); err != nil {
		t.Errorf("DeleteTask failed: %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"missing", "", 0},
		{"seconds", "2", 2 * time.Second},
		{"zero", "0", 0},
		{"negative", "-5", 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		h := http.Header{}
		if tt.value != "" {
			h.Set("Retry-After", tt.value)
		}
		if got := parseRetryAfter(h); got != tt.want {
			t.Errorf("%s: parseRetryAfter(%q) = %v, want %v", tt.name, tt.value, got, tt.want)
		}
	}

	// HTTP-date form
	h := http.Header{}
	h.Set("Retry-After", time.Now().Add(3*time.Second).UTC().Format(http.TimeFormat))
	if got := parseRetryAfter(h); got <= 0 || got > 3*time.Second {
		t.Errorf("HTTP-date Retry-After = %v, want (0s, 3s]", got)
	}
}
