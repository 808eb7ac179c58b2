package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case ScreenHome:
		body = m.renderHome()
	case ScreenCoffees:
		body = m.coffees.View()
	case ScreenHistory:
		body = m.history.View()
	case ScreenEndpoints:
		body = m.renderEndpoints()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Foreground(m.theme.Primary).Render("kahvi")
	if m.screen == ScreenHome {
		return title
	}
	return title + m.theme.Subtitle.Render(" › "+m.screen.String())
}

func (m Model) renderHome() string {
	var b strings.Builder

	switch {
	case m.welcome != "":
		b.WriteString(m.theme.Bold.Render(m.welcome))
	case m.loading:
		b.WriteString(m.spinner.View() + " " + m.theme.StatusPending.Render("Connecting…"))
	default:
		b.WriteString(m.theme.StatusPending.Render("The coffee API did not answer."))
	}
	b.WriteString("\n\n")

	for i, item := range menu {
		line := fmt.Sprintf("[%s] %-14s", item.shortcut, item.screen)
		hint := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(item.hint)
		if i == m.menuCursor {
			line = m.theme.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "  " + hint + "\n")
	}
	return b.String()
}

func (m Model) renderEndpoints() string {
	if m.loading && len(m.endpoints.AvailableEndpoints) == 0 {
		return m.spinner.View() + " " + m.theme.StatusPending.Render("Loading endpoints…")
	}
	if len(m.endpoints.AvailableEndpoints) == 0 {
		return m.theme.StatusPending.Render("No endpoints listed.")
	}

	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(m.theme.Border)).
		Headers("Path", "Name", "Methods")
	for _, e := range m.endpoints.AvailableEndpoints {
		t.Row(e.Path, e.Name, e.MethodList())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render(m.endpoints.Message),
		t.Render(),
	)
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.lastError != nil:
		status = m.theme.StatusError.Render("Error: " + common.UserMessage(m.lastError))
	case m.loading && m.screen != ScreenHome:
		status = m.spinner.View() + " " + m.theme.StatusPending.Render("Loading…")
	}

	bindings := m.keymap.ShortHelp()
	switch m.screen {
	case ScreenHome:
		bindings = []key.Binding{m.keymap.Up, m.keymap.Down, m.keymap.Select, m.keymap.Quit}
	case ScreenCoffees:
		bindings = m.keymap.tableHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", status, m.help.ShortHelpView(bindings))
}
