package components

// SelectedMsg reports a committed selection from a SelectionWidget.
type SelectedMsg struct {
	Value string
	Label string
}
