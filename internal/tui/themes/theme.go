package themes

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	Header        lipgloss.Style
	BorderedBox   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusPending lipgloss.Style
	NormalSeries  lipgloss.Style
	BatchSeries   lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
}

// Default is the default theme, coffee browns on a dark terminal.
var Default = Theme{
	Primary:   lipgloss.Color("#c08457"),
	Secondary: lipgloss.Color("#e6b98a"),
	Muted:     lipgloss.Color("#737373"),
	Border:    lipgloss.Color("#404040"),
	Error:     lipgloss.Color("#ef4444"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#c08457")).
		Foreground(lipgloss.Color("#1a1a1a")).
		Bold(true),
	Highlighted: lipgloss.NewStyle().
		Background(lipgloss.Color("#404040")).
		Foreground(lipgloss.Color("#fafafa")),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#e6b98a")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#404040")),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),

	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),

	NormalSeries: lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")),
	BatchSeries:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
}

// Mono renders without colors, for terminals that mangle them.
var Mono = Theme{
	Primary:       lipgloss.Color(""),
	Secondary:     lipgloss.Color(""),
	Muted:         lipgloss.Color(""),
	Border:        lipgloss.Color(""),
	Error:         lipgloss.Color(""),
	Title:         lipgloss.NewStyle().Bold(true).MarginBottom(1),
	Subtitle:      lipgloss.NewStyle(),
	Normal:        lipgloss.NewStyle(),
	Bold:          lipgloss.NewStyle().Bold(true),
	Selected:      lipgloss.NewStyle().Reverse(true),
	Highlighted:   lipgloss.NewStyle().Underline(true),
	Header:        lipgloss.NewStyle().Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true),
	BorderedBox:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	StatusInfo:    lipgloss.NewStyle().Bold(true),
	StatusError:   lipgloss.NewStyle().Bold(true),
	StatusPending: lipgloss.NewStyle().Italic(true),
	NormalSeries:  lipgloss.NewStyle(),
	BatchSeries:   lipgloss.NewStyle(),
}

var byName = map[string]Theme{
	"default": Default,
	"mono":    Mono,
}

// ByName looks up a theme by its configuration name.
func ByName(name string) (Theme, bool) {
	t, ok := byName[name]
	return t, ok
}

// Names returns the known theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
