package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"

	"github.com/matzehuels/movegraph/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// DefaultRetryDelay is the first backoff delay when Attempts > 1.
	DefaultRetryDelay = 500 * time.Millisecond

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 32 << 20
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// ClientOptions configures a [Client]. Zero values select the defaults.
type ClientOptions struct {
	Name       string        // breaker name, used in logs
	Timeout    time.Duration // per-request timeout
	Attempts   int           // total attempts per Get; 1 disables retries
	RetryDelay time.Duration // initial backoff delay

	// BreakerFailures is the number of consecutive failures that opens the
	// breaker. BreakerTimeout is how long it stays open.
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	Logger *log.Logger
}

// Client performs GET requests for small JSON or YAML documents.
// It is safe for concurrent use.
type Client struct {
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// NewClient creates a client from opts.
func NewClient(opts ClientOptions) *Client {
	if opts.Name == "" {
		opts.Name = "moveset"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	threshold := opts.BreakerFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    opts.Name,
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		http:     &http.Client{Timeout: opts.Timeout},
		breaker:  cb,
		attempts: max(opts.Attempts, 1),
		delay:    opts.RetryDelay,
		logger:   logger,
	}
}

// Get fetches rawURL and returns the response body. Non-2xx responses are
// returned as *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		out, err := c.breaker.Execute(func() (any, error) {
			return c.get(ctx, rawURL)
		})
		if err != nil {
			return err
		}
		body = out.([]byte)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// State reports the breaker state, for health endpoints.
func (c *Client) State() string { return c.breaker.State().String() }

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	host, path := splitURL(rawURL)
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	c.logger.Debug("fetched", "url", rawURL, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		serr := &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
		if resp.StatusCode >= 500 {
			return nil, Retryable(serr)
		}
		return nil, serr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, Retryable(err)
	}
	return data, nil
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
