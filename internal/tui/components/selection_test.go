package components

import (
	"testing"

	"github.com/Veraticus/kahvi/internal/combobox"
	"github.com/Veraticus/kahvi/internal/testutil"
	tuitest "github.com/Veraticus/kahvi/internal/tui/testing"
	"github.com/Veraticus/kahvi/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abcOptions() []combobox.Option {
	return []combobox.Option{
		{Label: "Alpha", Value: "a"},
		{Label: "Bravo", Value: "b"},
		{Label: "Charlie", Value: "c"},
	}
}

func send(w SelectionWidget, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		cmd = w.Update(msg)
	}
	return cmd
}

func TestSearchSelect_FilterAndSelect(t *testing.T) {
	w := NewSearchSelectModel(themes.Default)
	w.SetOptions(abcOptions())

	send(w, tuitest.KeyEnter())
	require.True(t, w.Focused())

	send(w, tuitest.Type("RAV")...)
	assert.Equal(t, "RAV", w.Query())
	view := tuitest.StripANSI(w.View())
	assert.Contains(t, view, "Bravo")
	assert.NotContains(t, view, "Alpha")
	assert.NotContains(t, view, "Charlie")

	cmd := send(w, tuitest.KeyEnter())
	require.NotNil(t, cmd)
	assert.Equal(t, SelectedMsg{Value: "b", Label: "Bravo"}, cmd())

	// A blur arriving in the same turn must not undo the selection.
	w.Blur()
	value, ok := w.Selected()
	assert.True(t, ok)
	assert.Equal(t, "b", value)
	assert.False(t, w.Focused())
	assert.Contains(t, tuitest.StripANSI(w.View()), "Product: Bravo")
}

func TestSearchSelect_RefocusRestoresAllOptions(t *testing.T) {
	w := NewSearchSelectModel(themes.Default)
	w.SetOptions(abcOptions())

	send(w, tuitest.KeyEnter())
	send(w, tuitest.Type("zzz")...)
	assert.Contains(t, tuitest.StripANSI(w.View()), "No matching products")

	send(w, tuitest.KeyEsc())
	assert.False(t, w.Focused())
	_, ok := w.Selected()
	assert.False(t, ok)

	send(w, tuitest.KeyEnter())
	assert.Empty(t, w.Query())
	view := tuitest.StripANSI(w.View())
	assert.True(t, tuitest.ContainsInOrder(view, "Alpha", "Bravo", "Charlie"))
}

func TestSearchSelect_EscKeepsPreviousSelection(t *testing.T) {
	w := NewSearchSelectModel(themes.Default)
	w.SetOptions(abcOptions())
	w.SetSelected("c")

	send(w, tuitest.KeyEnter())
	send(w, tuitest.Type("al")...)
	cmd := send(w, tuitest.KeyEsc())

	assert.Nil(t, cmd)
	value, _ := w.Selected()
	assert.Equal(t, "c", value)
	assert.Contains(t, tuitest.StripANSI(w.View()), "Product: Charlie")
}

func TestSearchSelect_HighlightNavigation(t *testing.T) {
	w := NewSearchSelectModel(themes.Default)
	w.SetOptions(abcOptions())

	send(w, tuitest.KeyEnter(), tuitest.KeyDown(), tuitest.KeyDown(), tuitest.KeyDown())
	cmd := send(w, tuitest.KeyEnter())

	require.NotNil(t, cmd)
	assert.Equal(t, "c", cmd().(SelectedMsg).Value)
}

func TestListSelect(t *testing.T) {
	w := NewListSelectModel(themes.Default)
	w.SetOptions(abcOptions())

	assert.Nil(t, send(w, tuitest.KeyPress("j")), "keys are ignored while unfocused")
	assert.False(t, w.Focused())

	send(w, tuitest.KeyEnter())
	require.True(t, w.Focused())
	assert.True(t, tuitest.ContainsInOrder(tuitest.StripANSI(w.View()), "Alpha", "Bravo", "Charlie"))

	cmd := send(w, tuitest.KeyPress("j"), tuitest.KeyEnter())
	require.NotNil(t, cmd)
	assert.Equal(t, SelectedMsg{Value: "b", Label: "Bravo"}, cmd())
	assert.False(t, w.Focused())

	// Refocusing puts the cursor on the selection.
	send(w, tuitest.KeyEnter())
	cmd = send(w, tuitest.KeyEnter())
	assert.Equal(t, "b", cmd().(SelectedMsg).Value)
}

func TestNewSelectionWidget(t *testing.T) {
	tests := []struct {
		want any
		name string
		kind Selector
	}{
		{name: "search", kind: SelectorSearch, want: &SearchSelectModel{}},
		{name: "list", kind: SelectorList, want: &ListSelectModel{}},
		{name: "unknown falls back to search", kind: Selector("dropdown"), want: &SearchSelectModel{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, NewSelectionWidget(tt.kind, themes.Default))
		})
	}
}

func TestProductOptions(t *testing.T) {
	options := ProductOptions(testutil.SampleProducts())

	require.Len(t, options, 3)
	assert.Equal(t, combobox.Option{Label: "Juhla Mokka (K-Ruoka)", Value: "1"}, options[0])
}
