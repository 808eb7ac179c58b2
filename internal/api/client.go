// Package api is the HTTP client for the coffee price API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/service"
)

// Request paths.
const (
	PathWelcome   = "/"
	PathEndpoints = "/endpoints"
	PathCoffees   = "/coffees"
	PathProducts  = "/coffees/products"
)

// HistoryPath returns the history path of a product, escaping the id.
func HistoryPath(productID string) string {
	return "/coffees/" + url.PathEscape(productID) + "/history"
}

// StatusError is a non-success response the client does not retry.
type StatusError struct {
	Path       string
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: unexpected status %d - %s", e.Path, e.StatusCode, e.Body)
}

// Client implements service.DataSource over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      service.RetryOptions
}

var _ service.DataSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetryOptions sets the retry policy for transient failures.
func WithRetryOptions(opts service.RetryOptions) Option {
	return func(c *Client) {
		c.retry = opts
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid API URL %q", common.ErrInvalidConfig, baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      service.DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Welcome fetches the greeting served at the API root.
func (c *Client) Welcome(ctx context.Context) (*model.Welcome, error) {
	var w model.Welcome
	if err := c.get(ctx, PathWelcome, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Endpoints fetches the route listing.
func (c *Client) Endpoints(ctx context.Context) (*model.EndpointList, error) {
	var list model.EndpointList
	if err := c.get(ctx, PathEndpoints, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Coffees fetches every product row.
func (c *Client) Coffees(ctx context.Context) ([]model.Coffee, error) {
	coffees := []model.Coffee{}
	if err := c.get(ctx, PathCoffees, &coffees); err != nil {
		return nil, err
	}
	return coffees, nil
}

// Products fetches the currently listed products.
func (c *Client) Products(ctx context.Context) ([]model.ProductSummary, error) {
	products := []model.ProductSummary{}
	if err := c.get(ctx, PathProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// History fetches the price periods of one product. Unknown products yield
// common.ErrNotFound.
func (c *Client) History(ctx context.Context, productID string) ([]model.PriceObservation, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: empty product id", common.ErrNotFound)
	}
	history := []model.PriceObservation{}
	if err := c.get(ctx, HistoryPath(productID), &history); err != nil {
		return nil, err
	}
	return history, nil
}

// get performs a GET with retries and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	err := common.WithRetry(ctx, func() error {
		return c.doGet(ctx, path, out)
	}, c.retry)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Requesting coffee API", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return common.Permanent(ctx.Err())
		}
		return common.Transient(fmt.Errorf("%w: %w", common.ErrUnavailable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return common.Permanent(common.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return common.Transient(common.ErrRateLimit)
	case resp.StatusCode >= http.StatusInternalServerError:
		return common.Transient(fmt.Errorf("%w: status %d", common.ErrUnavailable, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return common.Permanent(&StatusError{
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
