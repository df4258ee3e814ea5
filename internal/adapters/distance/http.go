package distance

import (
	"context"
	"depot-analysis/internal/platform/metrics"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// apiClient is the HTTP plumbing shared by the mapping API providers:
// rate limiting, status mapping and retry with exponential backoff.
// It is safe for concurrent use.
type apiClient struct {
	name        string
	session     *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	backoff     time.Duration
	authorize   func(req *http.Request)
}

// Option configures a provider's HTTP client.
type Option func(*apiClient)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(a *apiClient) { a.session = c }
}

// WithRateLimit caps outgoing requests per second. qps <= 0 disables the limit.
func WithRateLimit(qps float64) Option {
	return func(a *apiClient) {
		if qps <= 0 {
			a.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		a.limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
}

// WithRetry sets the attempt count and the initial backoff.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(a *apiClient) {
		if maxAttempts > 0 {
			a.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			a.backoff = backoff
		}
	}
}

func newAPIClient(name string, opts ...Option) *apiClient {
	a := &apiClient{
		name:        name,
		session:     &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(10), 1),
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *apiClient) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.authorize != nil {
		a.authorize(req)
	}

	return req, nil
}

func (a *apiClient) do(req *http.Request) (*http.Response, error) {
	if err := a.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := a.session.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(a.name, "transport_error").Inc()
		return nil, err
	}
	if resp.StatusCode >= 400 {
		metrics.ProviderRequests.WithLabelValues(a.name, fmt.Sprintf("http_%d", resp.StatusCode)).Inc()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	metrics.ProviderRequests.WithLabelValues(a.name, "ok").Inc()
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// responses) using exponential backoff while respecting context cancellation.
func (a *apiClient) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := a.backoff

	var lastErr error

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := a.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == a.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
