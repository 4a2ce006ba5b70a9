// Package blob implements the HTTP client for the external blob store that
// assignment files are uploaded to. The store is a plain object store: PUT a
// path, get back a durable public URL.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/circuitbreaker"
	"github.com/edutrack/edutrack-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the blob store client.
type Config struct {
	// BaseURL is the blob store base URL.
	BaseURL string

	// Bucket is the bucket assignment files live in.
	Bucket string

	// APIKey authenticates uploads (empty if the store is open).
	APIKey string

	// Timeout bounds each upload request. Uploads sit on the submission
	// path, so this must be explicit and short.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(baseURL, bucket string) Config {
	return Config{
		BaseURL: baseURL,
		Bucket:  bucket,
		Timeout: 15 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the blob store client. It implements assignment.BlobStore.
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *logger.Logger
}

// NewClient creates a new blob store client.
func NewClient(config Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("blob"))

	breaker := circuitbreaker.BlobStoreBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state change",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		breaker: breaker,
		logger:  log,
	}
}

// Put stores data under the given path and returns the public URL of the
// stored object. Failures are classified as shared storage errors; an upload
// that succeeds here but whose follow-up metadata insert fails leaves the
// object orphaned, which callers accept and log.
func (c *Client) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	objectURL := c.objectURL(path)

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.doPut(ctx, objectURL, data, contentType)
	})
	if err != nil {
		switch {
		case errors.Is(err, circuitbreaker.ErrCircuitOpen),
			errors.Is(err, circuitbreaker.ErrTooManyRequests):
			return "", shared.ErrBlobUnavailable
		case errors.Is(err, context.DeadlineExceeded):
			return "", shared.ErrBlobTimeout
		default:
			return "", shared.WrapError("blob", "Put", shared.ErrStorage, "upload failed", err)
		}
	}

	return objectURL, nil
}

// doPut performs one upload attempt.
func (c *Client) doPut(ctx context.Context, objectURL string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, objectURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The http.Client timeout surfaces as a url.Error wrapping a
		// deadline; normalize so callers see one timeout kind.
		if ctx.Err() != nil {
			return context.DeadlineExceeded
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return context.DeadlineExceeded
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("blob upload",
		logger.String("url", objectURL),
		logger.Int("status", resp.StatusCode),
		logger.Int("bytes", len(data)),
		logger.Latency(time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}

// objectURL builds the durable public URL for a stored object.
func (c *Client) objectURL(path string) string {
	base := strings.TrimRight(c.config.BaseURL, "/")
	return base + "/" + c.config.Bucket + "/" + strings.TrimLeft(path, "/")
}
