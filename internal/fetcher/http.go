package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/service"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:140.0) Gecko/20100101 Firefox/140.0"

// StatusError is a store response with a non-success status.
type StatusError struct {
	URL        string
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("POST %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("POST %s: unexpected status %d - %s", e.URL, e.StatusCode, e.Body)
}

// storeClient posts to one store search endpoint.
type storeClient struct {
	httpClient *http.Client
	endpoint   string
	headers    map[string]string
	retry      service.RetryOptions
}

// Option configures a store fetcher.
type Option func(*storeClient)

// WithEndpoint replaces the search URL.
func WithEndpoint(url string) Option {
	return func(c *storeClient) {
		c.endpoint = url
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *storeClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *storeClient) {
		c.httpClient.Timeout = d
	}
}

// WithRetryOptions sets the retry policy for transient failures.
func WithRetryOptions(opts service.RetryOptions) Option {
	return func(c *storeClient) {
		c.retry = opts
	}
}

func newStoreClient(endpoint string, headers map[string]string, opts []Option) *storeClient {
	c := &storeClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   endpoint,
		headers:    headers,
		retry:      service.DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// post sends an empty POST with the store's browser headers and decodes the
// JSON body into out.
func (c *storeClient) post(ctx context.Context, out any) error {
	err := common.WithRetry(ctx, func() error {
		return c.doPost(ctx, out)
	}, c.retry)
	if err != nil {
		return fmt.Errorf("querying %s: %w", c.endpoint, err)
	}
	return nil
}

func (c *storeClient) doPost(ctx context.Context, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, nil)
	if err != nil {
		return common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", browserUserAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return common.Permanent(ctx.Err())
		}
		return common.Transient(fmt.Errorf("%w: %w", common.ErrUnavailable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("Store API responded", "url", c.endpoint, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return common.Transient(common.ErrRateLimit)
	case resp.StatusCode >= http.StatusInternalServerError:
		return common.Transient(fmt.Errorf("%w: status %d", common.ErrUnavailable, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return common.Permanent(&StatusError{
			URL:        c.endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
