// Package server implements the coffee price HTTP API served by `kahvi serve`.
package server

import (
	"context"

	"github.com/Veraticus/kahvi/internal/model"
)

// Store is the read model behind the API.
type Store interface {
	// Coffees returns the current row of every product.
	Coffees(ctx context.Context) ([]model.Coffee, error)
	// Products returns currently listed products, filter bags excluded,
	// ordered by name.
	Products(ctx context.Context) ([]model.ProductSummary, error)
	// History returns one entry per price period of a product, oldest first.
	// An unknown product yields an empty slice.
	History(ctx context.Context, productID string) ([]model.PriceObservation, error)
	Ping(ctx context.Context) error
}
