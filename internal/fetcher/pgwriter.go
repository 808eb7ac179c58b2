package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// productColumns are the scraped columns of products_and_prices, in the
// order productRow emits them.
var productColumns = []string{
	"id", "name_finnish", "name_english", "available_store", "available_web",
	"net_weight", "content_unit", "image_url", "brand_name",
	"normal_price_unit", "normal_price", "batch_price",
	"batch_discount_pct", "batch_discount_type", "batch_days_left",
	"tonno_row_hash",
}

func productRow(p Product) []any {
	return []any{
		p.ID, p.NameFinnish, p.NameEnglish, p.AvailableStore, p.AvailableWeb,
		p.NetWeight, p.ContentUnit, p.ImageURL, p.BrandName,
		p.NormalPriceUnit, p.NormalPrice, p.BatchPrice,
		p.BatchDiscountPct, p.BatchDiscountType, p.BatchDaysLeft,
		p.RowHash(),
	}
}

// PGWriter writes listings into Postgres.
type PGWriter struct {
	pool *pgxpool.Pool
}

var _ Writer = (*PGWriter)(nil)

// NewPGWriter creates a PGWriter backed by a pgx pool.
func NewPGWriter(ctx context.Context, databaseURL string) (*PGWriter, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &PGWriter{pool: pool}, nil
}

// Close releases the pool resources.
func (w *PGWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

// HasData implements Writer.
func (w *PGWriter) HasData(ctx context.Context, dataSource string) (bool, error) {
	var exists bool
	err := w.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products_and_prices WHERE tonno_data_source = $1)`,
		dataSource,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check rows of %s: %w", dataSource, err)
	}
	return exists, nil
}

const insertProductSQL = `
    INSERT INTO products_and_prices (
        id, name_finnish, name_english, available_store, available_web,
        net_weight, content_unit, image_url, brand_name,
        normal_price_unit, normal_price, batch_price,
        batch_discount_pct, batch_discount_type, batch_days_left,
        tonno_row_hash, tonno_data_source, tonno_load_ts, tonno_end_ts
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NULL)
    ON CONFLICT (id, tonno_load_ts) DO NOTHING
`

// InsertInitial implements Writer. Rows already loaded at the same
// timestamp are skipped.
func (w *PGWriter) InsertInitial(ctx context.Context, dataSource string, products []Product, loadedAt time.Time) (int, error) {
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(insertProductSQL, append(productRow(p), dataSource, loadedAt)...)
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range products {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("failed to insert product: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to insert products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit initial load: %w", err)
	}
	return inserted, nil
}

const createIncomingSQL = `
    CREATE TEMP TABLE incoming_products (
        id TEXT,
        name_finnish TEXT,
        name_english TEXT,
        available_store BOOLEAN,
        available_web BOOLEAN,
        net_weight NUMERIC,
        content_unit TEXT,
        image_url TEXT,
        brand_name TEXT,
        normal_price_unit TEXT,
        normal_price NUMERIC,
        batch_price NUMERIC,
        batch_discount_pct NUMERIC,
        batch_discount_type TEXT,
        batch_days_left INT,
        tonno_row_hash TEXT
    ) ON COMMIT DROP
`

// closeChangedSQL ends the current period of every product whose scraped
// columns changed.
const closeChangedSQL = `
    UPDATE products_and_prices p
    SET tonno_end_ts = $1
    FROM incoming_products i
    WHERE p.id = i.id
        AND p.tonno_end_ts IS NULL
        AND p.tonno_data_source = $2
        AND p.tonno_row_hash IS DISTINCT FROM i.tonno_row_hash
`

// closeDisappearedSQL ends the current period of products missing from the
// listing.
const closeDisappearedSQL = `
    UPDATE products_and_prices p
    SET tonno_end_ts = $1
    WHERE p.tonno_end_ts IS NULL
        AND p.tonno_data_source = $2
        AND NOT EXISTS (SELECT 1 FROM incoming_products i WHERE i.id = p.id)
`

// insertChangedSQL opens a period for every new product and every product
// closed by closeChangedSQL.
const insertChangedSQL = `
    INSERT INTO products_and_prices (
        id, name_finnish, name_english, available_store, available_web,
        net_weight, content_unit, image_url, brand_name,
        normal_price_unit, normal_price, batch_price,
        batch_discount_pct, batch_discount_type, batch_days_left,
        tonno_data_source, tonno_load_ts, tonno_end_ts, tonno_row_hash
    )
    SELECT
        i.id, i.name_finnish, i.name_english, i.available_store, i.available_web,
        i.net_weight, i.content_unit, i.image_url, i.brand_name,
        i.normal_price_unit, i.normal_price, i.batch_price,
        i.batch_discount_pct, i.batch_discount_type, i.batch_days_left,
        $2, $1, NULL, i.tonno_row_hash
    FROM incoming_products i
    LEFT JOIN products_and_prices p
        ON p.id = i.id
        AND p.tonno_end_ts IS NULL
        AND p.tonno_data_source = $2
    WHERE p.id IS NULL
`

// Update implements Writer. Unchanged products keep their open period.
func (w *PGWriter) Update(ctx context.Context, dataSource string, products []Product, loadedAt time.Time) (UpdateResult, error) {
	var res UpdateResult
	if len(products) == 0 {
		return res, errors.New("refusing to update from an empty listing")
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, createIncomingSQL); err != nil {
		return res, fmt.Errorf("failed to create staging table: %w", err)
	}

	rows := make([][]any, len(products))
	for i, p := range products {
		rows[i] = productRow(p)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"incoming_products"}, productColumns, pgx.CopyFromRows(rows)); err != nil {
		return res, fmt.Errorf("failed to stage listing: %w", err)
	}

	tag, err := tx.Exec(ctx, closeChangedSQL, loadedAt, dataSource)
	if err != nil {
		return res, fmt.Errorf("failed to close changed products: %w", err)
	}
	res.Updated = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, closeDisappearedSQL, loadedAt, dataSource)
	if err != nil {
		return res, fmt.Errorf("failed to close disappeared products: %w", err)
	}
	res.Disappeared = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, insertChangedSQL, loadedAt, dataSource)
	if err != nil {
		return res, fmt.Errorf("failed to insert new versions: %w", err)
	}
	res.Inserted = int(tag.RowsAffected())

	if err := tx.Commit(ctx); err != nil {
		return UpdateResult{}, fmt.Errorf("failed to commit update: %w", err)
	}
	return res, nil
}
