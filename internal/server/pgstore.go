package server

import (
	"context"
	"fmt"

	"github.com/Veraticus/kahvi/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore reads the products_and_prices table filled by the price fetcher.
type PGStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PGStore)(nil)

// NewPGStore creates a PGStore backed by a pgx pool.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// Close releases the pool resources.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks the database connection.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const coffeesSQL = `
    SELECT id::text, name_finnish, normal_price::float8, net_weight::float8, tonno_data_source
    FROM products_and_prices
    WHERE tonno_end_ts IS NULL
    ORDER BY name_finnish ASC
`

// Coffees returns the current row of every product.
func (s *PGStore) Coffees(ctx context.Context) ([]model.Coffee, error) {
	rows, err := s.pool.Query(ctx, coffeesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query coffees: %w", err)
	}
	defer rows.Close()

	coffees := make([]model.Coffee, 0)
	for rows.Next() {
		var (
			c             model.Coffee
			price, weight *float64
		)
		if err := rows.Scan(&c.ID, &c.NameFinnish, &price, &weight, &c.DataSource); err != nil {
			return nil, fmt.Errorf("failed to scan coffee: %w", err)
		}
		if price != nil {
			c.NormalPrice = *price
		}
		if weight != nil {
			c.NetWeight = *weight
		}
		coffees = append(coffees, c)
	}
	return coffees, rows.Err()
}

const productsSQL = `
    SELECT DISTINCT id::text, name_finnish, tonno_data_source
    FROM products_and_prices
    WHERE tonno_end_ts IS NULL
        AND NOT LOWER(name_finnish) LIKE '%suodatinpussi%'
        AND NOT LOWER(name_finnish) LIKE '%kahvinsuodatin%'
    ORDER BY name_finnish ASC
`

// Products returns the currently listed coffee products.
func (s *PGStore) Products(ctx context.Context) ([]model.ProductSummary, error) {
	rows, err := s.pool.Query(ctx, productsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]model.ProductSummary, 0)
	for rows.Next() {
		var p model.ProductSummary
		if err := rows.Scan(&p.ID, &p.NameFinnish, &p.DataSource); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// historySQL collapses consecutive loads with the same normal and batch
// price into one period. price_per_weight uses the lower of the two prices.
const historySQL = `
    WITH numbered AS (
        SELECT *,
            SUM(price_changed) OVER (ORDER BY tonno_load_ts) AS price_group
        FROM (
            SELECT
                name_finnish,
                normal_price,
                batch_price,
                batch_discount_pct,
                batch_discount_type,
                net_weight,
                content_unit,
                tonno_data_source,
                tonno_load_ts,
                tonno_end_ts,
                CASE
                    WHEN normal_price IS DISTINCT FROM
                         LAG(normal_price) OVER (ORDER BY tonno_load_ts)
                      OR batch_price IS DISTINCT FROM
                         LAG(batch_price) OVER (ORDER BY tonno_load_ts)
                    THEN 1 ELSE 0
                END AS price_changed
            FROM products_and_prices
            WHERE id::text = $1
        ) sub
    )
    SELECT
        (ARRAY_AGG(name_finnish ORDER BY tonno_load_ts))[1],
        normal_price::float8,
        batch_price::float8,
        ((ARRAY_AGG(batch_discount_pct ORDER BY tonno_load_ts))[1])::float8,
        ((ARRAY_AGG(batch_discount_type ORDER BY tonno_load_ts))[1])::text,
        ((ARRAY_AGG(net_weight ORDER BY tonno_load_ts))[1])::float8,
        ((ARRAY_AGG(content_unit ORDER BY tonno_load_ts))[1])::text,
        (CASE
            WHEN (ARRAY_AGG(net_weight ORDER BY tonno_load_ts))[1] > 0
                THEN COALESCE(
                    CASE WHEN batch_price IS NOT NULL AND batch_price < normal_price
                         THEN batch_price ELSE normal_price END,
                    normal_price
                ) / (ARRAY_AGG(net_weight ORDER BY tonno_load_ts))[1]
            ELSE NULL
        END)::float8,
        (ARRAY_AGG(tonno_data_source ORDER BY tonno_load_ts))[1],
        CAST(MIN(tonno_load_ts) AS varchar),
        CAST(MAX(tonno_end_ts) AS varchar)
    FROM numbered
    GROUP BY price_group, normal_price, batch_price
    ORDER BY MIN(tonno_load_ts) ASC
`

// History returns the price periods of one product.
func (s *PGStore) History(ctx context.Context, productID string) ([]model.PriceObservation, error) {
	rows, err := s.pool.Query(ctx, historySQL, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history of %s: %w", productID, err)
	}
	defer rows.Close()

	history := make([]model.PriceObservation, 0)
	for rows.Next() {
		var (
			obs       model.PriceObservation
			validFrom string
			validTo   *string
		)
		if err := rows.Scan(
			&obs.NameFinnish,
			&obs.NormalPrice,
			&obs.BatchPrice,
			&obs.BatchDiscountPct,
			&obs.BatchDiscountType,
			&obs.NetWeight,
			&obs.ContentUnit,
			&obs.PricePerWeight,
			&obs.DataSource,
			&validFrom,
			&validTo,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price period: %w", err)
		}

		if obs.ValidFrom, err = model.ParseTimestamp(validFrom); err != nil {
			return nil, fmt.Errorf("invalid valid_from: %w", err)
		}
		if validTo != nil {
			ts, err := model.ParseTimestamp(*validTo)
			if err != nil {
				return nil, fmt.Errorf("invalid valid_to: %w", err)
			}
			obs.ValidTo = &ts
		}
		history = append(history, obs)
	}
	return history, rows.Err()
}
