package nifi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:    baseURL,
		MaxRetries: maxRetries,
		RateLimit:  1000,
		RateBurst:  1000,
	}, nil, nil, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestDo_TransientThenSuccess(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 3)
	entity, err := c.get(context.Background(), "flow/about", nil)
	require.NoError(t, err)
	assert.Equal(t, true, entity["ok"])
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 2)
	_, err := c.get(context.Background(), "flow/about", nil)
	require.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))
	assert.Equal(t, int32(2), calls.Load(), "attempt budget is the total call count")
}

func TestDo_BadRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "revision mismatch", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 3)
	_, err := c.get(context.Background(), "processors/abc", nil)
	require.Error(t, err)
	assert.Equal(t, KindRemote, KindOf(err))
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Equal(t, int32(1), calls.Load(), "4xx must fail on the first call")
}

func TestDo_UnauthorizedIsAuthKind(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 3)
	_, err := c.get(context.Background(), "flow/about", nil)
	require.Error(t, err)
	assert.Equal(t, KindAuth, KindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_RateLimitedStatusIsRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 3)
	_, err := c.get(context.Background(), "flow/about", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_EmptyBodyIsValid(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 1)
	entity, err := c.delete(context.Background(), "processors/abc", nil)
	require.NoError(t, err)
	assert.Empty(t, entity)
}

func TestDo_ProxyContextPathHeader(t *testing.T) {
	var gotHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-ProxyContextPath")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c, err := NewClient(Config{
		BaseURL:          ts.URL,
		ProxyContextPath: "/gateway/cdp-proxy/nifi-app",
		MaxRetries:       1,
		RateLimit:        1000,
		RateBurst:        1000,
	}, nil, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = c.get(context.Background(), "flow/about", nil)
	require.NoError(t, err)
	assert.Equal(t, "/gateway/cdp-proxy/nifi-app", gotHeader)
}

func TestRevisionEnvelope(t *testing.T) {
	c := testClient(t, "http://nifi.local/nifi-api", 1)

	rev := c.revision(7)
	assert.Equal(t, int64(7), rev["version"])
	assert.NotEmpty(t, rev["clientId"])

	// The client id is stable across calls within one session.
	rev2 := c.revision(8)
	assert.Equal(t, rev["clientId"], rev2["clientId"])
}
