package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sleepRecorder captures backoff waits without letting time pass
type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func newTestClient(recorder *sleepRecorder) *Client {
	return NewClient(DefaultTimeout, DefaultMaxRetries).WithSleep(recorder.sleep)
}

func TestDoRetriesExactlyMaxRetriesOn429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	recorder := &sleepRecorder{}
	client := newTestClient(recorder)

	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusTooManyRequests, terr.StatusCode)

	// First attempt plus exactly 3 retries, never more.
	assert.Equal(t, 4, calls)

	// Linear backoff: 1s, 2s, 3s.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}, recorder.waits)
}

func TestDoDoesNotRetryOn404(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	recorder := &sleepRecorder{}
	client := newTestClient(recorder)

	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusNotFound, terr.StatusCode)
	assert.Equal(t, 1, calls)
	assert.Empty(t, recorder.waits)
}

func TestDoSucceedsAfterTransientFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	recorder := &sleepRecorder{}
	client := newTestClient(recorder)

	body, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 3, calls)
}

func TestDoHonorsRequestPolicy(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	recorder := &sleepRecorder{}
	client := newTestClient(recorder)

	policy := &Policy{MaxRetries: 1, Backoff: 500 * time.Millisecond}
	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL, Policy: policy})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, recorder.waits)
}

func TestDoNoRetryWhenPolicyDisablesIt(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(&sleepRecorder{})

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    server.URL,
		Policy: &Policy{MaxRetries: 0},
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoTimeoutIsNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(20*time.Millisecond, 0).WithSleep((&sleepRecorder{}).sleep)

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    server.URL,
		Policy: &Policy{MaxRetries: 0},
	})

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.Timeout)
	assert.Equal(t, "request timeout", terr.Message)
}

func TestDoAbortedByCaller(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	client := newTestClient(&sleepRecorder{})
	_, err := client.Do(ctx, Request{Method: http.MethodGet, URL: server.URL})

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.Aborted)
}

func TestRetryRunsPolicyForSDKCalls(t *testing.T) {
	recorder := &sleepRecorder{}

	var attempts int
	err := Retry(context.Background(),
		Policy{MaxRetries: 2, Backoff: 500 * time.Millisecond},
		recorder.sleep,
		func(error) int { return http.StatusTooManyRequests },
		func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return assert.AnError
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 1 * time.Second}, recorder.waits)
}

func TestRetryStopsOnNonRetryableStatus(t *testing.T) {
	var attempts int
	err := Retry(context.Background(),
		Policy{MaxRetries: 3},
		(&sleepRecorder{}).sleep,
		func(error) int { return http.StatusBadRequest },
		func(ctx context.Context) error {
			attempts++
			return assert.AnError
		})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryableStatus(t *testing.T) {
	for _, status := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, RetryableStatus(status), "status %d", status)
	}
	for _, status := range []int{200, 400, 401, 403, 404, 413, 415, 501} {
		assert.False(t, RetryableStatus(status), "status %d", status)
	}
}
