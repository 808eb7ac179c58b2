package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/kahvi/internal/combobox"
	"github.com/Veraticus/kahvi/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchSelectModel is a SelectionWidget backed by a combobox: the option
// list narrows as the user types.
type SearchSelectModel struct {
	box     *combobox.Combobox
	picked  *SelectedMsg
	theme   themes.Theme
	maxRows int
}

var _ SelectionWidget = (*SearchSelectModel)(nil)

// NewSearchSelectModel creates a closed search widget without options.
func NewSearchSelectModel(theme themes.Theme) *SearchSelectModel {
	m := &SearchSelectModel{theme: theme, maxRows: 8}
	m.box = combobox.New(nil, "", m.onValueChange)
	return m
}

func (m *SearchSelectModel) onValueChange(value string) {
	options := m.box.Options()
	label := value
	if i := slices.IndexFunc(options, func(o combobox.Option) bool { return o.Value == value }); i >= 0 {
		label = options[i].Label
	}
	m.picked = &SelectedMsg{Value: value, Label: label}
}

// Update handles one key event. Every key starts a new turn of the combobox.
func (m *SearchSelectModel) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	m.box.EndTurn()

	if !m.box.IsOpen() {
		switch key.String() {
		case "enter", "/":
			m.box.Focus()
		}
		return nil
	}

	switch key.String() {
	case "up", "ctrl+p":
		m.box.MoveHighlight(-1)
	case "down", "ctrl+n":
		m.box.MoveHighlight(1)
	case "enter":
		m.box.SelectHighlighted()
	case "esc":
		m.box.Blur()
	case "backspace":
		m.box.Backspace()
	default:
		switch key.Type {
		case tea.KeyRunes:
			for _, r := range key.Runes {
				m.box.Type(r)
			}
		case tea.KeySpace:
			m.box.Type(' ')
		}
	}

	if m.picked == nil {
		return nil
	}
	picked := *m.picked
	m.picked = nil
	return selectedCmd(picked.Value, picked.Label)
}

// SetOptions replaces the options.
func (m *SearchSelectModel) SetOptions(options []combobox.Option) {
	m.box.SetOptions(options)
}

// SetSelected sets the selected value without emitting a SelectedMsg.
func (m *SearchSelectModel) SetSelected(value string) {
	m.box.SetSelected(value)
}

// Selected returns the selected value.
func (m *SearchSelectModel) Selected() (string, bool) {
	return m.box.Selected()
}

// Focus opens the option list with an empty query.
func (m *SearchSelectModel) Focus() {
	m.box.Focus()
}

// Blur closes the list unless a selection was made this turn.
func (m *SearchSelectModel) Blur() {
	m.box.Blur()
}

// Focused reports whether the list is open.
func (m *SearchSelectModel) Focused() bool {
	return m.box.IsOpen()
}

// Query returns the live query.
func (m *SearchSelectModel) Query() string {
	return m.box.Query()
}

// View renders the input line and, while open, the filtered options.
func (m *SearchSelectModel) View() string {
	var b strings.Builder

	text := m.box.DisplayText()
	switch {
	case m.box.IsOpen():
		text = m.theme.Bold.Render(text) + m.theme.Highlighted.Render(" ")
	case text == "":
		text = lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Select a product (enter to search)")
	}
	b.WriteString(m.theme.BorderedBox.Render("Product: " + text))

	if !m.box.IsOpen() {
		return b.String()
	}

	b.WriteString("\n")
	visible := m.box.Visible()
	if len(visible) == 0 {
		b.WriteString(m.theme.StatusPending.Render("  No matching products"))
		return b.String()
	}

	start, end := window(m.box.Highlight(), len(visible), m.maxRows)
	for i := start; i < end; i++ {
		line := "  " + visible[i].Label
		if i == m.box.Highlight() {
			line = m.theme.Selected.Render("▸ " + visible[i].Label)
		}
		b.WriteString(line + "\n")
	}
	if end-start < len(visible) {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).
			Render(fmt.Sprintf("  %d of %d", m.box.Highlight()+1, len(visible))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// window returns the [start, end) range of at most size rows that keeps
// cursor visible.
func window(cursor, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := max(cursor-size/2, 0)
	end := start + size
	if end > n {
		end = n
		start = n - size
	}
	return start, end
}
