// Package blobstore provides a client for the content-addressed blob
// gateway that holds document ciphertext. The registry itself stores
// only digests; the gateway is consulted as an advisory availability
// check when documents are submitted.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/justichain/justichain/internal/registry"
)

// Client errors.
var (
	// ErrCircuitOpen is returned when the gateway circuit breaker is open.
	ErrCircuitOpen = errors.New("blob gateway circuit breaker is open")

	// ErrBlobNotFound means the gateway does not hold the blob.
	ErrBlobNotFound = errors.New("blob not found at gateway")
)

// ClientConfig holds configuration for the blob gateway client.
type ClientConfig struct {
	// BaseURL is the gateway root, e.g. https://blobs.internal:8443.
	BaseURL string

	// Timeout is the per-request timeout. Default: 5 seconds.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts. Default: 3.
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval.
	// Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval is the maximum retry backoff interval.
	// Default: 2 seconds.
	MaxInterval time.Duration

	Logger zerolog.Logger
}

// Client checks blob availability with circuit breaker and retry
// protection. Gateway flakiness must never block document submission,
// so callers treat failures as advisory.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[int]
	config     ClientConfig
	logger     zerolog.Logger
}

// NewClient creates a new blob gateway client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        "blob-gateway",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		config:     cfg,
		logger:     cfg.Logger,
	}
}

// Exists reports whether the gateway holds a blob for the digest. The
// lookup is a HEAD on /blobs/{digest}; 5xx responses and network
// errors are retried with exponential backoff and count against the
// circuit breaker.
func (c *Client) Exists(ctx context.Context, digest registry.Digest) (bool, error) {
	if digest.IsZero() {
		return false, nil
	}

	url := c.baseURL + "/blobs/" + string(digest)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	var status int
	operation := func() error {
		code, err := c.breaker.Execute(func() (int, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
			if err != nil {
				return 0, err
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return 0, err
			}
			resp.Body.Close()

			if resp.StatusCode >= 500 {
				return resp.StatusCode, fmt.Errorf("gateway returned %d", resp.StatusCode)
			}
			return resp.StatusCode, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			return err
		}
		status = code
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx))
	if err != nil {
		return false, err
	}

	switch {
	case status == http.StatusOK || status == http.StatusNoContent:
		return true, nil
	case status == http.StatusNotFound:
		return false, ErrBlobNotFound
	default:
		return false, fmt.Errorf("unexpected gateway status %d", status)
	}
}

// State returns the current circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}
