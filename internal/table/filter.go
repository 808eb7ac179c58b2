// Package table derives the filtered and sorted product table shown to the user.
//
// The derived view is a pure function of the backing collection, the Filter
// and the SortState. Nothing is cached between calls: every change to any
// input is followed by a full recomputation.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/kahvi/internal/model"
)

// FilterField names one constraint of a Filter.
type FilterField int

const (
	// FieldName constrains the product name by substring.
	FieldName FilterField = iota
	// FieldDataSource constrains the store/data source by substring.
	FieldDataSource
	// FieldMinPrice is the inclusive lower price bound.
	FieldMinPrice
	// FieldMaxPrice is the inclusive upper price bound.
	FieldMaxPrice
)

// FilterFields lists every field in display order.
var FilterFields = []FilterField{FieldName, FieldDataSource, FieldMinPrice, FieldMaxPrice}

// String returns the canonical field name.
func (f FilterField) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldDataSource:
		return "dataSource"
	case FieldMinPrice:
		return "minPrice"
	case FieldMaxPrice:
		return "maxPrice"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// ParseFilterField resolves a field name. Camel, snake and kebab spellings are accepted.
func ParseFilterField(s string) (FilterField, error) {
	normalized := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
	switch normalized {
	case "name":
		return FieldName, nil
	case "datasource", "source":
		return FieldDataSource, nil
	case "minprice":
		return FieldMinPrice, nil
	case "maxprice":
		return FieldMaxPrice, nil
	default:
		return 0, fmt.Errorf("unknown filter field %q", s)
	}
}

// Filter holds the constraints as the user typed them. Empty strings impose
// no restriction, and price bounds that do not parse to a finite number are
// treated as absent.
type Filter struct {
	Name       string
	DataSource string
	MinPrice   string
	MaxPrice   string
}

// Get returns the raw value of field.
func (f Filter) Get(field FilterField) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldDataSource:
		return f.DataSource
	case FieldMinPrice:
		return f.MinPrice
	case FieldMaxPrice:
		return f.MaxPrice
	default:
		return ""
	}
}

// Set returns a copy of f with field replaced by value.
func (f Filter) Set(field FilterField, value string) Filter {
	switch field {
	case FieldName:
		f.Name = value
	case FieldDataSource:
		f.DataSource = value
	case FieldMinPrice:
		f.MinPrice = value
	case FieldMaxPrice:
		f.MaxPrice = value
	}
	return f
}

// IsZero reports whether no constraint text has been entered.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matches reports whether record satisfies every active constraint of f.
func Matches(record model.Coffee, f Filter) bool {
	if !containsFold(record.NameFinnish, f.Name) {
		return false
	}
	if !containsFold(record.DataSource, f.DataSource) {
		return false
	}
	if lower, ok := parseBound(f.MinPrice); ok && record.NormalPrice < lower {
		return false
	}
	if upper, ok := parseBound(f.MaxPrice); ok && record.NormalPrice > upper {
		return false
	}
	return true
}

// Apply returns the records matching f in their original order.
func Apply(records []model.Coffee, f Filter) []model.Coffee {
	out := make([]model.Coffee, 0, len(records))
	for _, r := range records {
		if Matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(field, constraint string) bool {
	if constraint == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(constraint))
}

// parseBound parses a price bound. A comma decimal separator is accepted
// since prices are typed the Finnish way as often as not.
func parseBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
