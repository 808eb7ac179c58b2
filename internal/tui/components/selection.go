package components

import (
	"github.com/Veraticus/kahvi/internal/combobox"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
)

// SelectionWidget is the product picker of the history screen. The host
// picks an implementation; both report selections as SelectedMsg.
type SelectionWidget interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetOptions(options []combobox.Option)
	SetSelected(value string)
	Selected() (string, bool)
	Focus()
	Blur()
	// Focused reports whether the widget consumes text keys.
	Focused() bool
}

// Selector names a SelectionWidget implementation.
type Selector string

const (
	// SelectorSearch is the filter-as-you-type combobox.
	SelectorSearch Selector = "search"
	// SelectorList is a plain cursor list.
	SelectorList Selector = "list"
)

// NewSelectionWidget builds the widget for kind. Unknown kinds get the search widget.
func NewSelectionWidget(kind Selector, theme themes.Theme) SelectionWidget {
	if kind == SelectorList {
		return NewListSelectModel(theme)
	}
	return NewSearchSelectModel(theme)
}

// ProductOptions converts product summaries into selection options labelled
// "name (source)".
func ProductOptions(products []model.ProductSummary) []combobox.Option {
	options := make([]combobox.Option, 0, len(products))
	for _, p := range products {
		options = append(options, combobox.Option{Label: p.Label(), Value: p.ID})
	}
	return options
}

func selectedCmd(value, label string) tea.Cmd {
	return func() tea.Msg {
		return SelectedMsg{Value: value, Label: label}
	}
}
