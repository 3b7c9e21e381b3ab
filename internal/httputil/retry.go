// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing shared by source adapters:
// a bounded-timeout client, 429 backoff, and a GET helper that turns any
// non-200 response into a StatusError.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryWait caps a single backoff wait. A Retry-After longer than the
// cap ends the retries and the 429 response is returned as is.
var MaxRetryWait = 30 * time.Second

const (
	defaultMaxRetries = 2
	defaultTimeout    = 20 * time.Second
	maxBodyBytes      = 16 << 20
)

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.Code)
}

// NewClient returns an http.Client whose every request is bounded by
// cfg.Timeout (20s when unset).
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff starting at RetryBaseDelay. A
// Retry-After header given in seconds overrides the computed delay.
//
// No wait exceeds MaxRetryWait or the client timeout, whichever is
// shorter. When maxRetries is 0 the default (2) is used. If the context is
// cancelled during a backoff wait the function returns ctx.Err(). After
// exhausting retries the last 429 response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger *zap.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	logger = logging.OrNop(logger)
	waitCap := MaxRetryWait
	if client.Timeout > 0 && client.Timeout < waitCap {
		waitCap = client.Timeout
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}
		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		backoff := min(time.Duration(math.Pow(2, float64(attempt)))*RetryBaseDelay, waitCap)
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
			backoff = time.Duration(secs) * time.Second
			if backoff > waitCap {
				logger.Warn("rate limited beyond retry budget",
					zap.String("host", req.URL.Host),
					zap.Duration("retry_after", backoff),
					zap.Duration("max_wait", waitCap))
				return resp, nil
			}
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Debug("rate limited, backing off",
			zap.String("host", req.URL.Host),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// Getter issues GET requests on behalf of one source adapter.
type Getter struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// Get fetches rawURL and returns the response body. Headers in extra are
// added to the request. Any status other than 200 yields a *StatusError.
func (g *Getter) Get(ctx context.Context, rawURL string, extra http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := g.Client
	if client == nil {
		client = NewClient(types.HTTPConfig{})
	}

	resp, err := DoWithRetry(ctx, client, req, g.MaxRetries, g.Logger)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: req.URL.Redacted(), Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
