package components

import (
	"slices"
	"strings"

	"github.com/Veraticus/kahvi/internal/combobox"
	"github.com/Veraticus/kahvi/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ListSelectModel is a SelectionWidget without text search, for terminals
// where typing into the picker is awkward.
type ListSelectModel struct {
	theme    themes.Theme
	selected string
	options  []combobox.Option
	cursor   int
	maxRows  int
	focused  bool
}

var _ SelectionWidget = (*ListSelectModel)(nil)

// NewListSelectModel creates an unfocused list without options.
func NewListSelectModel(theme themes.Theme) *ListSelectModel {
	return &ListSelectModel{theme: theme, maxRows: 10}
}

// Update handles one key event.
func (m *ListSelectModel) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if !m.focused {
		if key.String() == "enter" {
			m.Focus()
		}
		return nil
	}

	switch key.String() {
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "j", "down":
		m.cursor = min(m.cursor+1, max(len(m.options)-1, 0))
	case "esc":
		m.Blur()
	case "enter":
		if m.cursor >= len(m.options) {
			return nil
		}
		opt := m.options[m.cursor]
		m.selected = opt.Value
		m.focused = false
		return selectedCmd(opt.Value, opt.Label)
	}
	return nil
}

// SetOptions replaces the options and keeps the cursor in range.
func (m *ListSelectModel) SetOptions(options []combobox.Option) {
	m.options = slices.Clone(options)
	m.cursor = min(m.cursor, max(len(m.options)-1, 0))
}

// SetSelected sets the selected value without emitting a SelectedMsg.
func (m *ListSelectModel) SetSelected(value string) {
	m.selected = value
}

// Selected returns the selected value.
func (m *ListSelectModel) Selected() (string, bool) {
	return m.selected, m.selected != ""
}

// Focus shows the list with the cursor on the current selection.
func (m *ListSelectModel) Focus() {
	m.focused = true
	if i := slices.IndexFunc(m.options, func(o combobox.Option) bool { return o.Value == m.selected }); i >= 0 {
		m.cursor = i
	}
}

// Blur hides the list.
func (m *ListSelectModel) Blur() {
	m.focused = false
}

// Focused reports whether the list is shown.
func (m *ListSelectModel) Focused() bool {
	return m.focused
}

// View renders the current selection and, while focused, the list.
func (m *ListSelectModel) View() string {
	label := ""
	if i := slices.IndexFunc(m.options, func(o combobox.Option) bool { return o.Value == m.selected }); i >= 0 {
		label = m.options[i].Label
	}
	if label == "" {
		label = lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Select a product (enter to choose)")
	}

	var b strings.Builder
	b.WriteString(m.theme.BorderedBox.Render("Product: " + label))
	if !m.focused {
		return b.String()
	}

	b.WriteString("\n")
	if len(m.options) == 0 {
		b.WriteString(m.theme.StatusPending.Render("  No products"))
		return b.String()
	}
	start, end := window(m.cursor, len(m.options), m.maxRows)
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("▸ "+m.options[i].Label) + "\n")
			continue
		}
		b.WriteString("  " + m.options[i].Label + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
