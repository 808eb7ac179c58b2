package table

import (
	"testing"

	"github.com/Veraticus/kahvi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(records []model.Coffee) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.NameFinnish
	}
	return out
}

func TestCompare(t *testing.T) {
	cheap := model.Coffee{NameFinnish: "Arabica", NormalPrice: 4.5, NetWeight: 0.5, DataSource: "S-Kaupat"}
	pricey := model.Coffee{NameFinnish: "arabica", NormalPrice: 9.9, NetWeight: 0.4, DataSource: "K-Ruoka"}

	tests := []struct {
		name  string
		a, b  model.Coffee
		state SortState
		want  int
	}{
		{name: "none is always equal", a: cheap, b: pricey, state: SortState{}, want: 0},
		{name: "price ascending", a: cheap, b: pricey, state: SortState{Key: SortPrice}, want: -1},
		{name: "price descending", a: cheap, b: pricey, state: SortState{Key: SortPrice, Direction: Descending}, want: 1},
		{name: "weight ascending", a: cheap, b: pricey, state: SortState{Key: SortWeight}, want: 1},
		{name: "text is case sensitive", a: cheap, b: pricey, state: SortState{Key: SortName}, want: -1},
		{name: "source ascending", a: cheap, b: pricey, state: SortState{Key: SortSource}, want: 1},
		{name: "equal ascending", a: cheap, b: cheap, state: SortState{Key: SortPrice}, want: 0},
		{name: "equal descending", a: cheap, b: cheap, state: SortState{Key: SortPrice, Direction: Descending}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b, tt.state))
		})
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	records := []model.Coffee{
		{NameFinnish: "B", NormalPrice: 2},
		{NameFinnish: "A", NormalPrice: 1},
	}

	sorted := Sort(records, SortState{Key: SortPrice})

	assert.Equal(t, []string{"A", "B"}, names(sorted))
	assert.Equal(t, []string{"B", "A"}, names(records))
}

func TestSort_NoneKeepsInsertionOrder(t *testing.T) {
	records := []model.Coffee{
		{NameFinnish: "Zeta", NormalPrice: 1},
		{NameFinnish: "Alfa", NormalPrice: 3},
		{NameFinnish: "Kappa", NormalPrice: 2},
	}

	assert.Equal(t, []string{"Zeta", "Alfa", "Kappa"}, names(Sort(records, SortState{Key: SortNone, Direction: Descending})))
}

func TestSort_StableForTies(t *testing.T) {
	records := []model.Coffee{
		{NameFinnish: "first", NormalPrice: 5},
		{NameFinnish: "cheap", NormalPrice: 3},
		{NameFinnish: "second", NormalPrice: 5},
		{NameFinnish: "third", NormalPrice: 5},
	}

	asc := Sort(records, SortState{Key: SortPrice, Direction: Ascending})
	assert.Equal(t, []string{"cheap", "first", "second", "third"}, names(asc))

	desc := Sort(records, SortState{Key: SortPrice, Direction: Descending})
	assert.Equal(t, []string{"first", "second", "third", "cheap"}, names(desc))
}

func TestSortState_Indicator(t *testing.T) {
	state := SortState{Key: SortPrice, Direction: Descending}

	assert.Equal(t, "↓", state.Indicator(SortPrice))
	assert.Equal(t, "↕", state.Indicator(SortName))
	assert.Equal(t, "↑", SortState{Key: SortName}.Indicator(SortName))
	assert.Equal(t, "↕", SortState{}.Indicator(SortNone))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SortKey
		wantErr bool
	}{
		{input: "", want: SortNone},
		{input: "none", want: SortNone},
		{input: "normal_price", want: SortPrice},
		{input: "price", want: SortPrice},
		{input: "Name_Finnish", want: SortName},
		{input: "net_weight", want: SortWeight},
		{input: "source", want: SortSource},
		{input: "id", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortKey_RoundTripsThroughString(t *testing.T) {
	for _, key := range SortKeys {
		parsed, err := ParseSortKey(key.String())
		require.NoError(t, err)
		assert.Equal(t, key, parsed)
		assert.NotEmpty(t, key.Title())
	}
}
