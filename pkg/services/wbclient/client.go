// Package wbclient is a typed SDK for the Wildberries seller APIs used by the
// analytics engine: the statistics (orders/sales, settlement) host and the
// common (tariffs) host. It owns retries, per-endpoint rate limiting and error
// classification; payloads are validated into domain types at this boundary so
// the rest of the system never sees loosely-structured JSON.
package wbclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultStatisticsBase = "https://statistics-api.wildberries.ru"
	defaultCommonBase     = "https://common-api.wildberries.ru"

	defaultTimeout       = 30 * time.Second
	defaultRetryAttempts = 3
	retryBaseDelay       = 500 * time.Millisecond
)

// ErrorType classifies a WB API failure for logging and degradation decisions.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrAuthFailed
	ErrTimeout
	ErrNetwork
	ErrRateLimit
)

func (e ErrorType) String() string {
	switch e {
	case ErrAuthFailed:
		return "authentication_failed"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// HTTPClient lets tests substitute the transport. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries per-cabinet client settings. Zero values fall back to
// defaults via normalize.
type Config struct {
	Token          string
	StatisticsBase string
	CommonBase     string
	Timeout        time.Duration
	RetryAttempts  int
	// RequestsPerMinute bounds each endpoint independently; the statistics API
	// enforces its own per-endpoint quotas.
	RequestsPerMinute int
	BurstLimit        int
}

func (c Config) normalize() Config {
	if c.StatisticsBase == "" {
		c.StatisticsBase = defaultStatisticsBase
	}
	if c.CommonBase == "" {
		c.CommonBase = defaultCommonBase
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = defaultRetryAttempts
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 60
	}
	if c.BurstLimit <= 0 {
		c.BurstLimit = 1
	}
	return c
}

// Client is an authenticated WB API client scoped to one cabinet token.
type Client struct {
	cfg        Config
	httpClient HTTPClient

	mu       sync.Mutex
	limiters map[string]*rate.Limiter // endpoint id -> limiter
}

func New(cfg Config) (*Client, error) {
	cfg = cfg.normalize()
	if cfg.Token == "" {
		return nil, fmt.Errorf("wbclient: token is required")
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiters:   make(map[string]*rate.Limiter),
	}, nil
}

// NewWithHTTPClient is the test seam around New.
func NewWithHTTPClient(cfg Config, hc HTTPClient) (*Client, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	c.httpClient = hc
	return c, nil
}

func (c *Client) limiter(endpoint string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[endpoint]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(c.cfg.RequestsPerMinute)/60.0), c.cfg.BurstLimit)
		c.limiters[endpoint] = lim
	}
	return lim
}

// getJSON performs one rate-limited, retried GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	if err := c.limiter(endpoint).Wait(ctx); err != nil {
		return fmt.Errorf("wbclient: rate limiter wait for %s: %w", endpoint, err)
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("wbclient: build request for %s: %w", endpoint, err)
		}
		req.Header.Set("Authorization", c.cfg.Token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("wbclient: %s request: %w", endpoint, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("wbclient: %s read body: %w", endpoint, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("wbclient: %s decode response: %w", endpoint, err)
			}
			return nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			// Retrying with the same token cannot succeed.
			return fmt.Errorf("wbclient: %s status %d: %s", endpoint, resp.StatusCode, truncate(string(body), 200))
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("wbclient: %s status 429: rate limited", endpoint)
		default:
			lastErr = fmt.Errorf("wbclient: %s status %d: %s", endpoint, resp.StatusCode, truncate(string(body), 200))
		}
	}
	return fmt.Errorf("wbclient: %s failed after %d attempts: %w", endpoint, c.cfg.RetryAttempts, lastErr)
}

// ClassifyError maps an error returned by this client onto an ErrorType.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "status 401") || strings.Contains(msg, "status 403") || strings.Contains(msg, "unauthorized"):
		return ErrAuthFailed
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return ErrTimeout
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host"):
		return ErrNetwork
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return ErrRateLimit
	default:
		return ErrUnknown
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
