// Package resilience wraps the HTTP client used against the GIOŚ API with a
// circuit breaker and exponential-backoff retries.
package resilience

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the breaker has tripped and calls are being
// short-circuited.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ClientConfig holds configuration for the resilient client.
type ClientConfig struct {
	// Name identifies the breaker in logs.
	Name string

	// Timeout is the per-request timeout. Default: 10s.
	Timeout time.Duration

	// MaxRetries caps retry attempts per call. Default: 3.
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay. Default: 200ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay. Default: 5s.
	MaxInterval time.Duration

	// BreakerTimeout is how long the breaker stays open before probing.
	// Default: 60s.
	BreakerTimeout time.Duration
}

// Client is an HTTP client that retries transient failures and trips a
// circuit breaker when the provider is persistently failing.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	cfg        ClientConfig
}

// NewClient creates a resilient client with defaults filled in.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		cfg:        cfg,
	}
}

// serverError marks 5xx responses so they trip the breaker and get retried.
type serverError struct {
	statusCode int
}

func (e *serverError) Error() string {
	return "server error: " + http.StatusText(e.statusCode)
}

// Do executes the request, retrying transient failures (network errors, 5xx)
// with exponential backoff. An open breaker fails fast with ErrCircuitOpen.
// The caller is responsible for closing the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // closed by the caller
			r, doErr := c.httpClient.Do(req.Clone(ctx))
			if doErr != nil {
				return nil, doErr
			}
			if r.StatusCode >= 500 {
				return r, &serverError{statusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// State exposes the breaker state for observability.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}
