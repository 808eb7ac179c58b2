// Package fetcher scrapes coffee listings from grocery store APIs and keeps
// the products_and_prices table up to date, one row per product and price
// period.
package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Product is one listing as scraped from a store, mapped onto the columns of
// products_and_prices. Absent values are nil.
type Product struct {
	ID                string
	NameFinnish       *string
	NameEnglish       *string
	AvailableStore    *bool
	AvailableWeb      *bool
	NetWeight         *float64
	ContentUnit       *string
	ImageURL          *string
	BrandName         *string
	NormalPriceUnit   *string
	NormalPrice       *float64
	BatchPrice        *float64
	BatchDiscountPct  *float64
	BatchDiscountType *string
	BatchDaysLeft     *int64
}

// RowHash fingerprints every scraped column. A product gets a new price
// period only when its hash changes.
func (p Product) RowHash() string {
	fields := []string{
		p.ID,
		hashString(p.NameFinnish),
		hashString(p.NameEnglish),
		hashBool(p.AvailableStore),
		hashBool(p.AvailableWeb),
		hashFloat(p.NetWeight),
		hashString(p.ContentUnit),
		hashString(p.ImageURL),
		hashString(p.BrandName),
		hashString(p.NormalPriceUnit),
		hashFloat(p.NormalPrice),
		hashFloat(p.BatchPrice),
		hashFloat(p.BatchDiscountPct),
		hashString(p.BatchDiscountType),
		hashInt(p.BatchDaysLeft),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "||")))
	return hex.EncodeToString(sum[:])
}

func hashString(v *string) string {
	if v == nil {
		return "None"
	}
	return *v
}

func hashBool(v *bool) string {
	switch {
	case v == nil:
		return "None"
	case *v:
		return "True"
	default:
		return "False"
	}
}

func hashFloat(v *float64) string {
	if v == nil {
		return "None"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func hashInt(v *int64) string {
	if v == nil {
		return "None"
	}
	return strconv.FormatInt(*v, 10)
}

// Fetcher scrapes the current coffee listing of one store chain.
type Fetcher interface {
	// DataSource is the tonno_data_source value of the rows it produces.
	DataSource() string
	Fetch(ctx context.Context) ([]Product, error)
}

// UpdateResult counts the rows touched by one update.
type UpdateResult struct {
	Inserted    int
	Updated     int
	Disappeared int
}

// Writer persists scraped listings.
type Writer interface {
	// HasData reports whether any row of dataSource exists yet.
	HasData(ctx context.Context, dataSource string) (bool, error)
	// InsertInitial loads the first listing of dataSource.
	InsertInitial(ctx context.Context, dataSource string, products []Product, loadedAt time.Time) (int, error)
	// Update closes the current row of every changed or vanished product at
	// loadedAt and inserts the new versions.
	Update(ctx context.Context, dataSource string, products []Product, loadedAt time.Time) (UpdateResult, error)
}

// Result describes one fetcher run.
type Result struct {
	DataSource string
	Fetched    int
	Initial    bool
	UpdateResult
	Err error
}

func (r Result) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s: failed: %v", r.DataSource, r.Err)
	case r.Fetched == 0:
		return fmt.Sprintf("%s: no products from source, nothing written", r.DataSource)
	case r.Initial:
		return fmt.Sprintf("%s: initial load of %d products, inserted %d", r.DataSource, r.Fetched, r.Inserted)
	default:
		return fmt.Sprintf("%s: inserted %d, new versions %d, disappeared %d",
			r.DataSource, r.Inserted, r.Updated, r.Disappeared)
	}
}

// Runner moves listings from fetchers into a Writer.
type Runner struct {
	writer Writer
	now    func() time.Time
}

// NewRunner creates a runner writing to w.
func NewRunner(w Writer) *Runner {
	return &Runner{writer: w, now: time.Now}
}

// Run fetches one store and writes its listing. The first listing of a
// data source is inserted as is; later ones go through Update. A failure is
// reported in the Result so the remaining stores can still run.
func (r *Runner) Run(ctx context.Context, f Fetcher) Result {
	res := Result{DataSource: f.DataSource()}

	products, err := f.Fetch(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetching listing: %w", err)
		return res
	}
	res.Fetched = len(products)
	if len(products) == 0 {
		slog.Warn("Store returned no products", "source", res.DataSource)
		return res
	}

	hasData, err := r.writer.HasData(ctx, res.DataSource)
	if err != nil {
		res.Err = fmt.Errorf("checking existing rows: %w", err)
		return res
	}

	loadedAt := r.now()
	if !hasData {
		res.Initial = true
		res.Inserted, res.Err = r.writer.InsertInitial(ctx, res.DataSource, products, loadedAt)
	} else {
		res.UpdateResult, res.Err = r.writer.Update(ctx, res.DataSource, products, loadedAt)
	}
	if res.Err != nil {
		return res
	}

	slog.Info("Stored store listing",
		"source", res.DataSource,
		"fetched", res.Fetched,
		"inserted", res.Inserted,
		"updated", res.Updated,
		"disappeared", res.Disappeared)
	return res
}
