package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/service"
)

// Snapshot keys.
const (
	KeyWelcome   = "welcome"
	KeyEndpoints = "endpoints"
	KeyCoffees   = "coffees"
	KeyProducts  = "products"
)

// HistoryKey returns the snapshot key of one product's history.
func HistoryKey(productID string) string {
	return "history/" + productID
}

// CachedSource decorates a DataSource with a snapshot store. Successful
// responses are saved; when a request fails the last snapshot is served
// instead, and the original error is returned only when there is none.
// A product that the API reports as not found is never served from cache.
type CachedSource struct {
	source  service.DataSource
	store   service.SnapshotStore
	onStale func(key string, fetchedAt time.Time, cause error)
}

var _ service.DataSource = (*CachedSource)(nil)

// NewCachedSource wraps source with store.
func NewCachedSource(source service.DataSource, store service.SnapshotStore) *CachedSource {
	return &CachedSource{
		source: source,
		store:  store,
		onStale: func(key string, fetchedAt time.Time, cause error) {
			common.LogWarn("Serving cached snapshot", common.Fields{
				"key":        key,
				"fetched_at": fetchedAt,
				"cause":      cause.Error(),
			})
		},
	}
}

// OnStale replaces the hook invoked whenever a snapshot is served.
func (c *CachedSource) OnStale(fn func(key string, fetchedAt time.Time, cause error)) {
	c.onStale = fn
}

// Welcome implements service.DataSource.
func (c *CachedSource) Welcome(ctx context.Context) (*model.Welcome, error) {
	return fetchThrough(ctx, c, KeyWelcome, c.source.Welcome)
}

// Endpoints implements service.DataSource.
func (c *CachedSource) Endpoints(ctx context.Context) (*model.EndpointList, error) {
	return fetchThrough(ctx, c, KeyEndpoints, c.source.Endpoints)
}

// Coffees implements service.DataSource.
func (c *CachedSource) Coffees(ctx context.Context) ([]model.Coffee, error) {
	return fetchThrough(ctx, c, KeyCoffees, c.source.Coffees)
}

// Products implements service.DataSource.
func (c *CachedSource) Products(ctx context.Context) ([]model.ProductSummary, error) {
	return fetchThrough(ctx, c, KeyProducts, c.source.Products)
}

// History implements service.DataSource.
func (c *CachedSource) History(ctx context.Context, productID string) ([]model.PriceObservation, error) {
	return fetchThrough(ctx, c, HistoryKey(productID), func(ctx context.Context) ([]model.PriceObservation, error) {
		return c.source.History(ctx, productID)
	})
}

func fetchThrough[T any](ctx context.Context, c *CachedSource, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := fetch(ctx)
	if err == nil {
		if saveErr := c.store.Save(ctx, key, v); saveErr != nil {
			common.LogError(saveErr, "Failed to save snapshot", common.Fields{"key": key})
		}
		return v, nil
	}

	if errors.Is(err, common.ErrNotFound) || errors.Is(err, context.Canceled) {
		return v, err
	}

	var cached T
	fetchedAt, loadErr := c.store.Load(ctx, key, &cached)
	if loadErr != nil {
		if !errors.Is(loadErr, common.ErrNotFound) {
			common.LogError(loadErr, "Failed to load snapshot", common.Fields{"key": key})
		}
		return v, err
	}

	if c.onStale != nil {
		c.onStale(key, fetchedAt, err)
	}
	return cached, nil
}
