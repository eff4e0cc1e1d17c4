package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout bounds the duration of a single attempt
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of additional attempts after the first
	DefaultMaxRetries = 3

	// DefaultBackoff is the linear backoff base: attempt n waits n * base
	DefaultBackoff = 1 * time.Second
)

// RetryableStatus reports whether a response status code is eligible for
// automatic retry. Everything else fails immediately.
func RetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Error is the normalized failure every transport call resolves to: a
// human-readable message plus the originating status code where one exists.
type Error struct {
	StatusCode int
	Message    string
	Timeout    bool
	Aborted    bool
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Policy describes the retry behavior for one request. A zero RetryOn falls
// back to RetryableStatus.
type Policy struct {
	MaxRetries int
	Backoff    time.Duration
	RetryOn    func(status int) bool
}

func (p Policy) retryable(err *Error) bool {
	if err.Aborted {
		return false
	}
	retryOn := p.RetryOn
	if retryOn == nil {
		retryOn = RetryableStatus
	}
	if err.Timeout {
		// A per-attempt timeout counts as a 408; the next attempt gets a
		// fresh timeout window.
		return retryOn(http.StatusRequestTimeout)
	}
	return err.StatusCode > 0 && retryOn(err.StatusCode)
}

// SleepFunc waits for the given duration or until the context is done.
// Tests substitute a recorder so policy logic runs without real time passing.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Request describes one outbound call
type Request struct {
	Method      string
	URL         string
	Header      http.Header
	Body        []byte
	ContentType string

	// Policy overrides the client defaults when non-nil
	Policy *Policy
}

// Client performs network calls with bounded duration and a uniform retry
// policy. State for each call (timers, attempt counters, contexts) is local
// to that call; a Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	sleep      SleepFunc
}

// NewClient creates a transport client. Non-positive arguments select the
// defaults (30s timeout, 3 retries).
func NewClient(timeout time.Duration, maxRetries int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
		maxRetries: maxRetries,
		sleep:      sleepContext,
	}
}

// WithHTTPClient substitutes the underlying http.Client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithSleep substitutes the backoff sleep function
func (c *Client) WithSleep(sleep SleepFunc) *Client {
	c.sleep = sleep
	return c
}

// Do issues the request, retrying per policy with linear backoff. On success
// it returns the response body; on exhaustion of retries or a non-retryable
// failure it returns a normalized *Error.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	policy := Policy{MaxRetries: c.maxRetries, Backoff: DefaultBackoff}
	if req.Policy != nil {
		policy = *req.Policy
	}
	if policy.Backoff <= 0 {
		policy.Backoff = DefaultBackoff
	}

	var lastErr *Error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * policy.Backoff
			log.Debug().
				Int("attempt", attempt).
				Dur("wait", wait).
				Int("status", lastErr.StatusCode).
				Str("url", req.URL).
				Msg("retrying request")
			if err := c.sleep(ctx, wait); err != nil {
				return nil, &Error{Message: "request aborted", Aborted: true}
			}
		}

		body, err := c.attempt(ctx, req)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if !policy.retryable(err) {
			log.Warn().Int("status", err.StatusCode).Str("url", req.URL).Msg(err.Message)
			return nil, err
		}
	}

	log.Warn().
		Int("status", lastErr.StatusCode).
		Int("retries", policy.MaxRetries).
		Str("url", req.URL).
		Msg("retries exhausted")
	return nil, lastErr
}

// attempt performs one call with a fresh timeout window
func (c *Client) attempt(ctx context.Context, req Request) ([]byte, *Error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if len(req.Body) > 0 {
		reader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, req.URL, reader)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.normalizeAttemptError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.normalizeAttemptError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("request to %s failed", req.URL),
		}
	}

	return body, nil
}

func (c *Client) normalizeAttemptError(ctx context.Context, err error) *Error {
	// Caller cancellation is terminal; an attempt deadline is a timeout and
	// may be retried with a fresh window.
	if ctx.Err() != nil {
		return &Error{Message: "request aborted", Aborted: true}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Message: "request timeout", Timeout: true}
	}
	return &Error{Message: fmt.Sprintf("unexpected error: %v", err)}
}

// Retry runs fn under the given policy, classifying failures with status.
// It exists for provider SDKs that manage their own HTTP transport; the
// retry engine and backoff schedule match Client.Do.
func Retry(ctx context.Context, policy Policy, sleep SleepFunc, status func(error) int, fn func(context.Context) error) error {
	if sleep == nil {
		sleep = sleepContext
	}
	if policy.Backoff <= 0 {
		policy.Backoff = DefaultBackoff
	}
	retryOn := policy.RetryOn
	if retryOn == nil {
		retryOn = RetryableStatus
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, time.Duration(attempt)*policy.Backoff); err != nil {
				return &Error{Message: "request aborted", Aborted: true}
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		code := 0
		if status != nil {
			code = status(err)
		}
		if code == 0 || !retryOn(code) {
			return err
		}
	}
	return lastErr
}
