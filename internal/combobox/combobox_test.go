package combobox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abc() []Option {
	return []Option{
		{Label: "Alpha", Value: "a"},
		{Label: "Bravo", Value: "b"},
		{Label: "Charlie", Value: "c"},
	}
}

func labels(options []Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Label
	}
	return out
}

func TestCombobox_FocusOpensWithEmptyQuery(t *testing.T) {
	c := New(abc(), "a", nil)

	assert.Equal(t, Closed, c.State())
	assert.Equal(t, "Alpha", c.DisplayText())
	assert.Nil(t, c.Visible())

	c.Focus()
	assert.True(t, c.IsOpen())
	assert.Empty(t, c.DisplayText())
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, labels(c.Visible()))
}

func TestCombobox_TypingFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "only bravo", query: "rav", want: []string{"Bravo"}},
		{name: "case folded", query: "CHAR", want: []string{"Charlie"}},
		{name: "shared letter", query: "a", want: []string{"Alpha", "Bravo", "Charlie"}},
		{name: "nothing", query: "zulu", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(abc(), "", nil)
			c.Focus()
			for _, r := range tt.query {
				c.Type(r)
			}
			assert.Equal(t, tt.want, labels(c.Visible()))
			assert.Equal(t, tt.query, c.DisplayText())
			assert.Equal(t, len(tt.want) == 0, c.Empty())
		})
	}
}

func TestCombobox_RefocusRestoresAllOptions(t *testing.T) {
	c := New(abc(), "", nil)
	c.Focus()
	c.SetQuery("bravo")
	require.Len(t, c.Visible(), 1)

	c.Blur()
	assert.Equal(t, Closed, c.State())
	assert.Empty(t, c.Query())

	c.Focus()
	assert.Len(t, c.Visible(), 3)
}

func TestCombobox_QueryIgnoredWhileClosed(t *testing.T) {
	c := New(abc(), "", nil)
	c.Type('x')
	c.SetQuery("bravo")

	assert.Empty(t, c.Query())
	assert.False(t, c.Empty())
}

func TestCombobox_SelectionWinsOverBlur(t *testing.T) {
	var got []string
	c := New(abc(), "a", func(v string) { got = append(got, v) })

	c.Focus()
	c.SetQuery("br")
	require.True(t, c.SelectHighlighted())
	c.Blur()

	value, ok := c.Selected()
	assert.True(t, ok)
	assert.Equal(t, "b", value)
	assert.Equal(t, []string{"b"}, got)
	assert.Equal(t, "Bravo", c.DisplayText())
	assert.True(t, c.committed)

	c.EndTurn()
	assert.False(t, c.committed)
}

func TestCombobox_BlurWithoutSelectionRevertsText(t *testing.T) {
	called := false
	c := New(abc(), "c", func(string) { called = true })

	c.Focus()
	c.SetQuery("alp")
	c.Blur()

	assert.False(t, called)
	assert.Equal(t, "Charlie", c.DisplayText())
	value, _ := c.Selected()
	assert.Equal(t, "c", value)
}

func TestCombobox_BlurAfterEndTurnCloses(t *testing.T) {
	c := New(abc(), "", nil)
	c.Focus()
	require.True(t, c.Select("a"))
	c.EndTurn()

	c.Focus()
	c.SetQuery("b")
	c.Blur()
	assert.Equal(t, Closed, c.State())
	assert.Equal(t, "Alpha", c.DisplayText())
}

func TestCombobox_SelectRejectsUnknownOrClosed(t *testing.T) {
	c := New(abc(), "", nil)

	assert.False(t, c.Select("a"), "closed control")

	c.Focus()
	assert.False(t, c.Select("zz"), "unknown value")
	assert.True(t, c.IsOpen())
}

func TestCombobox_SetOptionsRefiltersWhileOpen(t *testing.T) {
	c := New(abc(), "", nil)
	c.Focus()
	c.SetQuery("e")
	assert.Equal(t, []string{"Charlie"}, labels(c.Visible()))

	c.SetOptions(append(abc(), Option{Label: "Echo", Value: "e"}))
	assert.Equal(t, []string{"Charlie", "Echo"}, labels(c.Visible()))
}

func TestCombobox_OptionsAreCopied(t *testing.T) {
	options := abc()
	c := New(options, "", nil)
	options[0].Label = "Mutated"

	assert.Equal(t, "Alpha", c.Options()[0].Label)

	out := c.Options()
	out[1].Label = "Changed"
	assert.Equal(t, "Bravo", c.Options()[1].Label)
}

func TestCombobox_MoveHighlightClamps(t *testing.T) {
	c := New(abc(), "", nil)
	c.Focus()

	c.MoveHighlight(-1)
	assert.Equal(t, 0, c.Highlight())
	c.MoveHighlight(5)
	assert.Equal(t, 2, c.Highlight())

	require.True(t, c.SelectHighlighted())
	value, _ := c.Selected()
	assert.Equal(t, "c", value)
}

func TestCombobox_SetSelectedIsControlled(t *testing.T) {
	c := New(abc(), "", nil)
	assert.Empty(t, c.DisplayText())

	c.SetSelected("b")
	assert.Equal(t, "Bravo", c.DisplayText())

	c.SetSelected("missing")
	assert.Empty(t, c.DisplayText())
}
