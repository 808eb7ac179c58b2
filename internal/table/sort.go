package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/kahvi/internal/model"
)

// SortKey selects the column the table is ordered by.
type SortKey int

const (
	// SortNone keeps the order of the backing collection.
	SortNone SortKey = iota
	// SortName orders by product name.
	SortName
	// SortPrice orders by normal price.
	SortPrice
	// SortWeight orders by net weight.
	SortWeight
	// SortSource orders by data source.
	SortSource
)

// SortKeys lists the sortable columns in display order.
var SortKeys = []SortKey{SortName, SortPrice, SortWeight, SortSource}

// accessor extracts the comparable value of one column. Exactly one of text
// or number is set for a given key.
type accessor struct {
	text   func(model.Coffee) string
	number func(model.Coffee) float64
}

var accessors = map[SortKey]accessor{
	SortName:   {text: func(c model.Coffee) string { return c.NameFinnish }},
	SortPrice:  {number: func(c model.Coffee) float64 { return c.NormalPrice }},
	SortWeight: {number: func(c model.Coffee) float64 { return c.NetWeight }},
	SortSource: {text: func(c model.Coffee) string { return c.DataSource }},
}

// String returns the record field the key sorts by.
func (k SortKey) String() string {
	switch k {
	case SortNone:
		return "none"
	case SortName:
		return "name_finnish"
	case SortPrice:
		return "normal_price"
	case SortWeight:
		return "net_weight"
	case SortSource:
		return "data_source"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Title returns the column heading for the key.
func (k SortKey) Title() string {
	switch k {
	case SortName:
		return "Name"
	case SortPrice:
		return "Price"
	case SortWeight:
		return "Weight"
	case SortSource:
		return "Source"
	default:
		return ""
	}
}

// ParseSortKey resolves a record field name or short column name.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "name", "name_finnish":
		return SortName, nil
	case "price", "normal_price":
		return SortPrice, nil
	case "weight", "net_weight":
		return SortWeight, nil
	case "source", "data_source":
		return SortSource, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q", s)
	}
}

// Direction is the sort order.
type Direction int

const (
	// Ascending orders smallest first.
	Ascending Direction = iota
	// Descending orders largest first.
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the active sort column and direction.
type SortState struct {
	Key       SortKey
	Direction Direction
}

// Indicator returns the header glyph for key: an arrow for the active
// column, a neutral marker for the rest.
func (s SortState) Indicator(key SortKey) string {
	if s.Key != SortNone && s.Key == key {
		if s.Direction == Descending {
			return "↓"
		}
		return "↑"
	}
	return "↕"
}

// Compare orders a and b under state, returning -1, 0 or 1. Text columns are
// compared case-sensitively; only filtering folds case.
func Compare(a, b model.Coffee, state SortState) int {
	acc, ok := accessors[state.Key]
	if !ok {
		return 0
	}

	var result int
	if acc.text != nil {
		result = strings.Compare(acc.text(a), acc.text(b))
	} else {
		result = cmp.Compare(acc.number(a), acc.number(b))
	}

	if state.Direction == Descending {
		return -result
	}
	return result
}

// Sort returns a stably sorted copy of records. Records comparing equal keep
// their relative order, and SortNone returns the input order unchanged.
func Sort(records []model.Coffee, state SortState) []model.Coffee {
	out := slices.Clone(records)
	if state.Key == SortNone {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.Coffee) int {
		return Compare(a, b, state)
	})
	return out
}
