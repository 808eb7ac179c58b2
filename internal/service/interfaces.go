// Package service defines the interfaces shared by the client, cache and server.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/kahvi/internal/model"
)

// DataSource is the read-only coffee price API as seen by the client.
type DataSource interface {
	Welcome(ctx context.Context) (*model.Welcome, error)
	Endpoints(ctx context.Context) (*model.EndpointList, error)
	Coffees(ctx context.Context) ([]model.Coffee, error)
	Products(ctx context.Context) ([]model.ProductSummary, error)
	// History returns the price periods of one product, oldest first.
	// It returns common.ErrNotFound for an unknown product.
	History(ctx context.Context, productID string) ([]model.PriceObservation, error)
}

// SnapshotStore keeps the last successful response of each request so the
// client can still show data while the API is unreachable.
type SnapshotStore interface {
	Save(ctx context.Context, key string, v any) error
	// Load decodes the snapshot stored under key into v and returns when it
	// was fetched. It returns common.ErrNotFound when there is none.
	Load(ctx context.Context, key string, v any) (time.Time, error)
	Keys(ctx context.Context) ([]string, error)
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryOptions returns the retry policy used for API requests.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}
