package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/table"
	"github.com/Veraticus/kahvi/internal/tui/themes"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// gridFocus is the focus index of the table itself, as opposed to a filter input.
const gridFocus = -1

var filterLabels = map[table.FilterField]string{
	table.FieldName:       "Name",
	table.FieldDataSource: "Source",
	table.FieldMinPrice:   "Min €",
	table.FieldMaxPrice:   "Max €",
}

// CoffeeTableModel is the product table screen: four filter inputs above a
// sortable grid. The rows shown are always the controller's derived view.
type CoffeeTableModel struct {
	controller *table.Controller
	theme      themes.Theme
	inputs     []textinput.Model
	grid       btable.Model
	focus      int
	width      int
	height     int
}

// NewCoffeeTableModel creates an empty table with focus on the grid.
func NewCoffeeTableModel(theme themes.Theme) CoffeeTableModel {
	inputs := make([]textinput.Model, len(table.FilterFields))
	for i, field := range table.FilterFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = strings.ToLower(filterLabels[field])
		in.CharLimit = 40
		in.Width = 14
		inputs[i] = in
	}

	m := CoffeeTableModel{
		controller: table.NewController(),
		theme:      theme,
		inputs:     inputs,
		focus:      gridFocus,
		width:      80,
		height:     24,
	}

	styles := btable.DefaultStyles()
	styles.Header = theme.Header
	styles.Selected = theme.Selected
	m.grid = btable.New(
		btable.WithColumns(m.columns()),
		btable.WithFocused(true),
		btable.WithHeight(m.gridHeight()),
		btable.WithStyles(styles),
	)
	return m
}

// SetCoffees replaces the backing collection.
func (m *CoffeeTableModel) SetCoffees(coffees []model.Coffee) {
	m.controller.SetRecords(coffees)
	m.refresh()
}

// Reset forgets the loaded collection but keeps filter and sort.
func (m *CoffeeTableModel) Reset() {
	m.controller.Reset()
	m.refresh()
}

// Loaded reports whether a collection has been delivered.
func (m CoffeeTableModel) Loaded() bool {
	return m.controller.Loaded()
}

// Rows returns the records currently displayed.
func (m CoffeeTableModel) Rows() []model.Coffee {
	return m.controller.DerivedView()
}

// Filter returns the filter as typed.
func (m CoffeeTableModel) Filter() table.Filter {
	return m.controller.Filter()
}

// Sort returns the active sort.
func (m CoffeeTableModel) Sort() table.SortState {
	return m.controller.Sort()
}

// Focused reports whether a filter input has focus and consumes text keys.
func (m CoffeeTableModel) Focused() bool {
	return m.focus != gridFocus
}

// Resize adapts the grid to the terminal.
func (m *CoffeeTableModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.grid.SetHeight(m.gridHeight())
	m.grid.SetColumns(m.columns())
}

// Update handles messages.
func (m CoffeeTableModel) Update(msg tea.Msg) (CoffeeTableModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "tab":
		return m, m.cycleFocus(1)
	case "shift+tab":
		return m, m.cycleFocus(-1)
	}

	if m.focus != gridFocus {
		switch key.String() {
		case "esc", "enter":
			return m, m.setFocus(gridFocus)
		}
		var cmd tea.Cmd
		before := m.inputs[m.focus].Value()
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if value := m.inputs[m.focus].Value(); value != before {
			m.controller.SetFilter(table.FilterFields[m.focus], value)
			m.refresh()
		}
		return m, cmd
	}

	switch key.String() {
	case "1", "2", "3", "4":
		m.controller.ToggleSort(table.SortKeys[key.Runes[0]-'1'])
		m.refresh()
		return m, nil
	case "0":
		m.controller.ToggleSort(table.SortNone)
		m.refresh()
		return m, nil
	case "/":
		return m, m.setFocus(0)
	case "x":
		m.controller.ClearFilter()
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m *CoffeeTableModel) cycleFocus(delta int) tea.Cmd {
	// Positions 0..n-1 are inputs and n is the grid.
	n := len(m.inputs) + 1
	pos := m.focus
	if pos == gridFocus {
		pos = len(m.inputs)
	}
	pos = ((pos+delta)%n + n) % n
	if pos == len(m.inputs) {
		pos = gridFocus
	}
	return m.setFocus(pos)
}

func (m *CoffeeTableModel) setFocus(focus int) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = focus
	if focus == gridFocus {
		m.grid.Focus()
		return nil
	}
	m.grid.Blur()
	return m.inputs[focus].Focus()
}

// refresh recomputes the derived view and rebuilds the grid from it.
func (m *CoffeeTableModel) refresh() {
	view := m.controller.DerivedView()
	rows := make([]btable.Row, 0, len(view))
	for _, c := range view {
		perKilo := ""
		if v, ok := model.PerKilo(c.NormalPrice, c.NetWeight); ok {
			perKilo = model.FormatAmount(v)
		}
		rows = append(rows, btable.Row{
			c.NameFinnish,
			model.FormatPrice(c.NormalPrice),
			model.FormatAmount(c.NetWeight) + " kg",
			c.DataSource,
			perKilo,
		})
	}

	m.grid.SetColumns(m.columns())
	m.grid.SetRows(rows)
	if m.grid.Cursor() >= len(rows) {
		m.grid.SetCursor(max(len(rows)-1, 0))
	}
}

func (m CoffeeTableModel) columns() []btable.Column {
	state := m.controller.Sort()
	title := func(n int, key table.SortKey) string {
		return fmt.Sprintf("%d %s %s", n, key.Title(), state.Indicator(key))
	}

	nameWidth := max(m.width-60, 20)
	return []btable.Column{
		{Title: title(1, table.SortName), Width: nameWidth},
		{Title: title(2, table.SortPrice), Width: 11},
		{Title: title(3, table.SortWeight), Width: 12},
		{Title: title(4, table.SortSource), Width: 12},
		{Title: "€/kg", Width: 8},
	}
}

func (m CoffeeTableModel) gridHeight() int {
	return max(m.height-10, 5)
}

// View renders the filters, the grid and a status line.
func (m CoffeeTableModel) View() string {
	filters := make([]string, 0, len(m.inputs))
	for i, field := range table.FilterFields {
		label := filterLabels[field] + ": "
		if i == m.focus {
			label = m.theme.Bold.Foreground(m.theme.Primary).Render(label)
		}
		filters = append(filters, label+m.inputs[i].View())
	}
	filterBar := strings.Join(filters, "  ")

	var body string
	switch rows := m.controller.DerivedView(); {
	case !m.controller.Loaded():
		body = m.theme.StatusPending.Render("Loading coffees…")
	case len(rows) == 0 && m.controller.Len() == 0:
		body = m.theme.StatusPending.Render("No coffees available")
	case len(rows) == 0:
		body = m.theme.StatusPending.Render("No coffees match the filter")
	default:
		body = m.grid.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.BorderedBox.Render(filterBar),
		body,
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render(m.statusLine()),
	)
}

func (m CoffeeTableModel) statusLine() string {
	shown := len(m.controller.DerivedView())
	status := fmt.Sprintf("%d of %d coffees", shown, m.controller.Len())
	if state := m.controller.Sort(); state.Key != table.SortNone {
		status += fmt.Sprintf(" · sorted by %s %s", strings.ToLower(state.Key.Title()), state.Direction)
	}
	if !m.controller.Filter().IsZero() {
		status += " · filtered"
	}
	return status
}
