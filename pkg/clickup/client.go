package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/davidshq/clickup-utils-sub000/pkg/config"
	errs "github.com/davidshq/clickup-utils-sub000/pkg/errors"
	"github.com/davidshq/clickup-utils-sub000/pkg/logger"
	"github.com/davidshq/clickup-utils-sub000/pkg/ratelimit"
	"github.com/davidshq/clickup-utils-sub000/pkg/retry"
)

// Client is a rate-limited ClickUp API client. All endpoint methods
// funnel through do, which enforces the limiter call contract: admission
// before every physical request, throttle retries through the limiter's
// bounded-retry protocol.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	headers    map[string]string
	limiter    *ratelimit.RateLimiter
	retryCfg   *retry.Config
	logger     logger.Logger
}

// NewClient creates a new ClickUp API client from the loaded configuration
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		BufferSeconds:     cfg.RateLimit.BufferSeconds,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		AutoRetry:         cfg.RateLimit.AutoRetry,
	}, log)

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		},
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		token:   cfg.API.Token,
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		limiter: limiter,
		retryCfg: &retry.Config{
			MaxAttempts: 3,
			Backoff:     retry.DefaultExponentialBackoff(),
			RetryIf:     retry.DefaultRetryIf,
			Logger:      log,
		},
		logger: log,
	}
}

// Limiter exposes the client's rate limiter for diagnostics
func (c *Client) Limiter() *ratelimit.RateLimiter {
	return c.limiter
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// do performs one logical request. It resets the limiter's retry
// counter, then loops: admit through the limiter, send, and on a 429
// hand the server's Retry-After to the limiter and resend until the
// retry budget runs out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, target interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errs.Wrap(errs.ErrorTypeParsing, fmt.Sprintf("failed to encode request body: %v", err), 0, err)
		}
	}

	// Fresh logical request: new retry budget.
	c.limiter.ResetRetryCount()

	for {
		resp, err := c.send(ctx, method, path, query, payload)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parseRetryAfter(resp.Header)
			drainBody(resp)

			c.logger.WarnWithFields("request throttled by server", map[string]interface{}{
				"method":      method,
				"path":        path,
				"retry_after": retryAfter.String(),
			})

			if hErr := c.limiter.HandleRateLimit(ctx, retryAfter); hErr != nil {
				return errs.Wrap(errs.ErrorTypeRateLimit, "rate limit exceeded", resp.StatusCode, hErr)
			}
			continue
		}

		if err := c.checkResponseStatus(resp); err != nil {
			drainBody(resp)
			return err
		}

		if target == nil {
			drainBody(resp)
			return nil
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return errs.Wrap(errs.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode, err)
		}

		if err := json.Unmarshal(data, target); err != nil {
			preview := string(data)
			if len(preview) > 200 {
				preview = preview[:200] + "..."
			}
			c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
				"path":         path,
				"status":       resp.StatusCode,
				"error":        err.Error(),
				"body_preview": preview,
			})
			return errs.Wrap(errs.ErrorTypeParsing, fmt.Sprintf("failed to parse JSON: %v", err), resp.StatusCode, err)
		}

		return nil
	}
}

// send performs a single admitted request, retrying transient network
// and 5xx failures with backoff. Every physical attempt goes through
// the limiter's admission gate first.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	cfg := *c.retryCfg
	cfg.Context = ctx

	var resp *http.Response
	err := retry.Do(func() error {
		if err := c.limiter.WaitIfNeeded(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return errs.Wrap(errs.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0, err)
		}
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}
		if c.token != "" {
			req.Header.Set("Authorization", c.token)
		}

		start := time.Now()
		c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
			"method": method,
			"url":    u,
		})

		r, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
				"method":   method,
				"url":      u,
				"error":    err.Error(),
				"duration": duration,
			})
			return errs.Wrap(errs.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0, err)
		}

		c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
			"method":   method,
			"url":      u,
			"status":   r.StatusCode,
			"duration": duration,
		})

		if r.StatusCode >= 500 {
			drainBody(r)
			return errs.New(errs.ErrorTypeServerError, fmt.Sprintf("server returned status %d", r.StatusCode), r.StatusCode)
		}

		resp = r
		return nil
	}, &cfg)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// checkResponseStatus maps the HTTP response status to typed errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.New(errs.ErrorTypeAuth, "authentication failed, check your API token", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.New(errs.ErrorTypeNotFound, "resource not found", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		// Handled by the caller through the limiter; mapped here only
		// as a safety net.
		return errs.New(errs.ErrorTypeRateLimit, "rate limit exceeded", resp.StatusCode)
	default:
		c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.New(errs.ErrorTypeUnknown, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
	}
}

// parseRetryAfter parses the Retry-After header as delta-seconds or an
// HTTP date. Zero means no usable value was supplied.
func parseRetryAfter(h http.Header) time.Duration {
	value := h.Get("Retry-After")
	if value == "" {
		return 0
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return 0
	}

	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}

func drainBody(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
