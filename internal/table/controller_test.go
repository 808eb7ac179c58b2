package table

import (
	"slices"
	"testing"

	"github.com/Veraticus/kahvi/internal/model"
	"github.com/stretchr/testify/assert"
)

func sampleCoffees() []model.Coffee {
	return []model.Coffee{
		{ID: "1", NameFinnish: "Juhla Mokka", NormalPrice: 5.95, NetWeight: 0.5, DataSource: "K-Ruoka"},
		{ID: "2", NameFinnish: "Presidentti", NormalPrice: 6.45, NetWeight: 0.5, DataSource: "S-Kaupat"},
		{ID: "3", NameFinnish: "Kulta Katriina", NormalPrice: 4.99, NetWeight: 0.5, DataSource: "S-Kaupat"},
		{ID: "4", NameFinnish: "Löfbergs", NormalPrice: 7.49, NetWeight: 0.45, DataSource: "K-Ruoka"},
	}
}

func TestController_DerivedViewEndToEnd(t *testing.T) {
	c := NewController()
	c.SetRecords([]model.Coffee{
		{NameFinnish: "Juhla Mokka", NormalPrice: 5.95, DataSource: "K-Ruoka"},
		{NameFinnish: "Presidentti", NormalPrice: 6.45, DataSource: "S-Kaupat"},
	})

	c.SetFilter(FieldMinPrice, "6")
	c.ToggleSort(SortPrice)

	view := c.DerivedView()
	assert.Equal(t, []model.Coffee{{NameFinnish: "Presidentti", NormalPrice: 6.45, DataSource: "S-Kaupat"}}, view)
	assert.Equal(t, SortState{Key: SortPrice, Direction: Ascending}, c.Sort())
}

func TestController_NotLoaded(t *testing.T) {
	c := NewController()

	view := c.DerivedView()
	assert.NotNil(t, view)
	assert.Empty(t, view)
	assert.False(t, c.Loaded())

	c.SetRecords(nil)
	assert.True(t, c.Loaded())
	assert.Empty(t, c.DerivedView())

	c.SetRecords(sampleCoffees())
	c.Reset()
	assert.False(t, c.Loaded())
	assert.Zero(t, c.Len())
	assert.Empty(t, c.DerivedView())
}

func TestController_EmptyFilterReturnsBackingOrder(t *testing.T) {
	c := NewController()
	records := sampleCoffees()
	c.SetRecords(records)

	assert.Equal(t, records, c.DerivedView())
}

func TestController_ToggleSort(t *testing.T) {
	tests := []struct {
		name    string
		toggles []SortKey
		want    SortState
	}{
		{name: "first toggle ascends", toggles: []SortKey{SortPrice}, want: SortState{Key: SortPrice, Direction: Ascending}},
		{name: "second toggle descends", toggles: []SortKey{SortPrice, SortPrice}, want: SortState{Key: SortPrice, Direction: Descending}},
		{name: "third toggle ascends again", toggles: []SortKey{SortPrice, SortPrice, SortPrice}, want: SortState{Key: SortPrice, Direction: Ascending}},
		{name: "new key resets direction", toggles: []SortKey{SortPrice, SortPrice, SortName}, want: SortState{Key: SortName, Direction: Ascending}},
		{name: "none clears", toggles: []SortKey{SortPrice, SortNone}, want: SortState{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			for _, key := range tt.toggles {
				c.ToggleSort(key)
			}
			assert.Equal(t, tt.want, c.Sort())
		})
	}
}

func TestController_ToggleReversesDistinctPrices(t *testing.T) {
	c := NewController()
	c.SetRecords(sampleCoffees())

	c.ToggleSort(SortPrice)
	asc := c.DerivedView()
	c.ToggleSort(SortPrice)
	desc := c.DerivedView()

	reversed := slices.Clone(asc)
	slices.Reverse(reversed)
	assert.Equal(t, reversed, desc)
	assert.Equal(t, []string{"Kulta Katriina", "Juhla Mokka", "Presidentti", "Löfbergs"}, names(asc))
}

func TestController_FilterAndSortRecomputeOnEveryChange(t *testing.T) {
	c := NewController()
	c.SetRecords(sampleCoffees())

	c.SetFilter(FieldDataSource, "s-kaupat")
	assert.Equal(t, []string{"Presidentti", "Kulta Katriina"}, names(c.DerivedView()))

	c.ToggleSort(SortName)
	assert.Equal(t, []string{"Kulta Katriina", "Presidentti"}, names(c.DerivedView()))

	c.SetFilter(FieldMaxPrice, "not a number")
	assert.Len(t, c.DerivedView(), 2)

	c.SetRecords(sampleCoffees()[:2])
	assert.Equal(t, []string{"Presidentti"}, names(c.DerivedView()))

	c.ClearFilter()
	assert.True(t, c.Filter().IsZero())
	assert.Equal(t, []string{"Juhla Mokka", "Presidentti"}, names(c.DerivedView()))
}
