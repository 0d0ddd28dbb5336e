// Package nifi is the HTTP client for a Knox-proxied Apache NiFi REST API.
//
// The client wraps every call with rate limiting, retry with exponential
// backoff on transient failures, and credential injection from a resolved
// knox.Session. It detects the engine version once per process and adapts
// endpoint paths and response shapes so the same logical operations work
// against both NiFi 1.x and 2.x.
package nifi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/flowgate/internal/knox"
)

const (
	// Backoff policy: 500ms doubling per attempt, capped at 5s.
	baseBackoff = 500 * time.Millisecond
	maxBackoff  = 5 * time.Second

	// maxResponseBytes caps how much of a response body is read. NiFi flow
	// listings are large but bounded; 32MB is far beyond anything sane.
	maxResponseBytes = 32 << 20
)

// Config configures the client.
type Config struct {
	// BaseURL is the NiFi API base, e.g. https://host/gateway/.../nifi-api.
	BaseURL string

	// ProxyContextPath, when set, is sent as X-ProxyContextPath.
	ProxyContextPath string

	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the total attempt budget for transient failures.
	MaxRetries int

	// RateLimit and RateBurst throttle outbound calls.
	RateLimit float64
	RateBurst int
}

// Client issues authenticated calls against the NiFi REST API.
type Client struct {
	baseURL          string
	proxyContextPath string
	http             *http.Client
	session          *knox.Session
	limiter          *rate.Limiter
	maxRetries       int
	logger           *zap.Logger
	metrics          *clientMetrics

	versionOnce sync.Once
	version     Version
	versionTup  [3]int

	clientIDOnce sync.Once
	clientIDVal  string
}

// NewClient creates a client. tlsCfg may be nil for library defaults; session
// may be nil for anonymous access.
func NewClient(cfg Config, session *knox.Session, tlsCfg *tls.Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("nifi base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg

	return &Client{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		proxyContextPath: cfg.ProxyContextPath,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		session:    session,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
		metrics:    newClientMetrics(logger),
		version:    VersionUnknown,
	}, nil
}

// Session returns the resolved credential session.
func (c *Client) Session() *knox.Session { return c.session }

// Entity is a decoded NiFi REST entity.
type Entity = map[string]any

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (Entity, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (Entity, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (Entity, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) (Entity, error) {
	return c.do(ctx, http.MethodDelete, path, query, nil)
}

// do performs one logical call with rate limiting and the retry policy.
// Transient failures (connection errors, timeouts, 429, 5xx) are retried up
// to the attempt budget; everything else propagates immediately.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (Entity, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: KindTransient, Op: opName(method, path), Err: err}
	}

	op := opName(method, path)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			backoff := baseBackoff << (attempt - 2)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			c.metrics.recordRetry(ctx, method)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &Error{Kind: KindTransient, Op: op, Err: ctx.Err()}
			}
		}

		entity, err := c.doOnce(ctx, method, path, query, body)
		if err == nil {
			c.metrics.recordRequest(ctx, method, "ok", time.Since(start))
			return entity, nil
		}

		var ne *Error
		if !errors.As(err, &ne) || !ne.Retryable() {
			c.metrics.recordRequest(ctx, method, "error", time.Since(start))
			return nil, err
		}

		lastErr = err
		c.logger.Debug("retrying transient failure",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	c.metrics.recordRequest(ctx, method, "exhausted", time.Since(start))
	return nil, &Error{
		Kind:   KindTransient,
		Op:     op,
		Status: StatusOf(lastErr),
		Err:    fmt.Errorf("retries exhausted after %d attempts: %w", c.maxRetries, lastErr),
	}
}

// doOnce performs a single HTTP attempt.
func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body any) (Entity, error) {
	op := opName(method, path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindRemote, Op: op, Err: fmt.Errorf("failed to marshal body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	target := c.url(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &Error{Kind: KindRemote, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.proxyContextPath != "" {
		req.Header.Set("X-ProxyContextPath", c.proxyContextPath)
	}
	c.session.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		// Connection failures and timeouts are transient.
		return nil, &Error{Kind: KindTransient, Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransient, Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindAuth, Op: op, Status: resp.StatusCode, Body: truncateBody(respBody)}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &Error{Kind: KindTransient, Op: op, Status: resp.StatusCode, Body: truncateBody(respBody)}
	case resp.StatusCode >= 400:
		return nil, &Error{Kind: KindRemote, Op: op, Status: resp.StatusCode, Body: truncateBody(respBody)}
	}

	// DELETE responses may be empty.
	if len(bytes.TrimSpace(respBody)) == 0 {
		return Entity{}, nil
	}

	var entity Entity
	if err := json.Unmarshal(respBody, &entity); err != nil {
		return nil, &Error{Kind: KindRemote, Op: op, Status: resp.StatusCode,
			Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return entity, nil
}

func opName(method, path string) string {
	return method + " " + strings.TrimLeft(path, "/")
}

// truncateBody bounds error bodies so they stay loggable.
func truncateBody(b []byte) string {
	const max = 2048
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
