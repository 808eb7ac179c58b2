package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-level shortcuts. Screen components handle
// their own keys; these are shown in the help line.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Back      key.Binding
	Refresh   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	// Coffee table
	NextInput key.Binding
	Sort      key.Binding
	Unsort    key.Binding
	Search    key.Binding
	Clear     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
		NextInput: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("Tab", "next filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "sort column"),
		),
		Unsort: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "original order"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.NextInput, k.Sort, k.Unsort, k.Search, k.Clear},
		{k.Refresh, k.Quit, k.ForceQuit},
	}
}

// tableHelp is the help line of the coffee table screen.
func (k KeyMap) tableHelp() []key.Binding {
	return []key.Binding{k.NextInput, k.Sort, k.Unsort, k.Clear, k.Back, k.Quit}
}
