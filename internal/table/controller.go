package table

import "github.com/Veraticus/kahvi/internal/model"

// Controller owns the filter and sort state of one product table together
// with the most recently fetched collection.
type Controller struct {
	records []model.Coffee
	filter  Filter
	sort    SortState
	loaded  bool
}

// NewController returns a controller with no collection loaded, no filter
// and insertion order.
func NewController() *Controller {
	return &Controller{}
}

// SetRecords replaces the backing collection wholesale.
func (c *Controller) SetRecords(records []model.Coffee) {
	c.records = records
	c.loaded = true
}

// Reset drops the backing collection. Filter and sort state are kept.
func (c *Controller) Reset() {
	c.records = nil
	c.loaded = false
}

// Loaded reports whether a collection has been delivered.
func (c *Controller) Loaded() bool {
	return c.loaded
}

// Len returns the size of the backing collection.
func (c *Controller) Len() int {
	return len(c.records)
}

// Filter returns the current filter state.
func (c *Controller) Filter() Filter {
	return c.filter
}

// Sort returns the current sort state.
func (c *Controller) Sort() SortState {
	return c.sort
}

// SetFilter replaces one constraint of the filter.
func (c *Controller) SetFilter(field FilterField, value string) {
	c.filter = c.filter.Set(field, value)
}

// ClearFilter removes every constraint.
func (c *Controller) ClearFilter() {
	c.filter = Filter{}
}

// ToggleSort selects key. Choosing the active key flips between ascending and
// descending; choosing a different key starts ascending. SortNone returns to
// insertion order.
func (c *Controller) ToggleSort(key SortKey) {
	switch {
	case key == SortNone:
		c.sort = SortState{}
	case c.sort.Key == key && c.sort.Direction == Ascending:
		c.sort = SortState{Key: key, Direction: Descending}
	default:
		c.sort = SortState{Key: key, Direction: Ascending}
	}
}

// DerivedView filters the backing collection record by record and stably
// sorts the survivors. It is recomputed on every call and is empty, never
// nil, when nothing is loaded.
func (c *Controller) DerivedView() []model.Coffee {
	if !c.loaded || len(c.records) == 0 {
		return []model.Coffee{}
	}
	return Sort(Apply(c.records, c.filter), c.sort)
}
