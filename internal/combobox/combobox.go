// Package combobox implements a searchable single-selection control.
//
// A Combobox is either Closed, showing the label of the selected value, or
// Open, showing the live query and the options whose label contains it. The
// selected value is owned by the caller: the control reports selections
// through a callback and is told the current value with SetSelected.
//
// Selection always wins over focus loss. Select marks the control as
// committed for the current turn, and Blur is a no-op until EndTurn clears
// that mark. Hosts call EndTurn once per processed input event.
package combobox

import (
	"slices"
	"strings"
)

// State is the open/closed state of a Combobox.
type State int

const (
	// Closed shows the selected label.
	Closed State = iota
	// Open shows the query and the filtered option list.
	Open
)

// String returns "closed" or "open".
func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Option is one selectable entry.
type Option struct {
	Label string
	Value string
}

// Combobox is the state of one selection control. The zero value is a closed
// control without options.
type Combobox struct {
	options       []Option
	selected      string
	query         string
	state         State
	committed     bool
	highlight     int
	onValueChange func(value string)
}

// New returns a closed control. selected may be empty for "nothing selected".
// onValueChange may be nil.
func New(options []Option, selected string, onValueChange func(value string)) *Combobox {
	return &Combobox{
		options:       slices.Clone(options),
		selected:      selected,
		onValueChange: onValueChange,
	}
}

// State returns the current state.
func (c *Combobox) State() State {
	return c.state
}

// IsOpen reports whether the option list is showing.
func (c *Combobox) IsOpen() bool {
	return c.state == Open
}

// Query returns the live query. It is always empty while closed.
func (c *Combobox) Query() string {
	return c.query
}

// Selected returns the selected value and whether one is set.
func (c *Combobox) Selected() (string, bool) {
	return c.selected, c.selected != ""
}

// Options returns a copy of the supplied options.
func (c *Combobox) Options() []Option {
	return slices.Clone(c.options)
}

// Focus opens the control with an empty query. Focusing an open control does
// nothing.
func (c *Combobox) Focus() {
	if c.state == Open {
		return
	}
	c.state = Open
	c.query = ""
	c.highlight = c.selectedIndex()
}

// SetQuery replaces the query. It is ignored while closed.
func (c *Combobox) SetQuery(q string) {
	if c.state != Open {
		return
	}
	c.query = q
	c.highlight = 0
}

// Type appends r to the query.
func (c *Combobox) Type(r rune) {
	c.SetQuery(c.query + string(r))
}

// Backspace removes the last rune of the query.
func (c *Combobox) Backspace() {
	runes := []rune(c.query)
	if len(runes) == 0 {
		return
	}
	c.SetQuery(string(runes[:len(runes)-1]))
}

// Visible returns the options whose label contains the query, case folded,
// in supplied order. It returns nil while closed.
func (c *Combobox) Visible() []Option {
	if c.state != Open {
		return nil
	}
	if c.query == "" {
		return slices.Clone(c.options)
	}

	needle := strings.ToLower(c.query)
	out := make([]Option, 0, len(c.options))
	for _, o := range c.options {
		if strings.Contains(strings.ToLower(o.Label), needle) {
			out = append(out, o)
		}
	}
	return out
}

// Empty reports whether the control is open and no option matches, in which
// case the host renders an explicit empty state.
func (c *Combobox) Empty() bool {
	return c.state == Open && len(c.Visible()) == 0
}

// Highlight returns the index into Visible of the highlighted option.
func (c *Combobox) Highlight() int {
	return c.highlight
}

// MoveHighlight moves the highlight by delta, clamped to the visible list.
func (c *Combobox) MoveHighlight(delta int) {
	n := len(c.Visible())
	if n == 0 {
		c.highlight = 0
		return
	}
	c.highlight = min(max(c.highlight+delta, 0), n-1)
}

// Select commits value if it is one of the options and the control is open.
// The callback runs first, then the query is cleared and the control closes.
// A Blur later in the same turn is ignored.
func (c *Combobox) Select(value string) bool {
	if c.state != Open || !c.hasValue(value) {
		return false
	}

	if c.onValueChange != nil {
		c.onValueChange(value)
	}
	c.selected = value
	c.query = ""
	c.state = Closed
	c.committed = true
	return true
}

// SelectHighlighted commits the highlighted visible option.
func (c *Combobox) SelectHighlighted() bool {
	visible := c.Visible()
	if c.highlight < 0 || c.highlight >= len(visible) {
		return false
	}
	return c.Select(visible[c.highlight].Value)
}

// Blur closes the control and discards the query, unless a selection was
// committed during the current turn.
func (c *Combobox) Blur() {
	if c.committed || c.state != Open {
		return
	}
	c.state = Closed
	c.query = ""
}

// EndTurn closes the current input turn.
func (c *Combobox) EndTurn() {
	c.committed = false
}

// SetOptions replaces the options wholesale. An open control re-filters
// against the current query immediately.
func (c *Combobox) SetOptions(options []Option) {
	c.options = slices.Clone(options)
	if n := len(c.Visible()); c.highlight >= n {
		c.highlight = max(n-1, 0)
	}
}

// SetSelected sets the controlled value without invoking the callback.
func (c *Combobox) SetSelected(value string) {
	c.selected = value
}

// SelectedLabel returns the label of the selected value, or "" when nothing
// is selected or the value is not among the options.
func (c *Combobox) SelectedLabel() string {
	if c.selected == "" {
		return ""
	}
	i := slices.IndexFunc(c.options, func(o Option) bool { return o.Value == c.selected })
	if i < 0 {
		return ""
	}
	return c.options[i].Label
}

// DisplayText returns the text shown in the input: the query while open and
// the selected label while closed.
func (c *Combobox) DisplayText() string {
	if c.state == Open {
		return c.query
	}
	return c.SelectedLabel()
}

func (c *Combobox) hasValue(value string) bool {
	return slices.ContainsFunc(c.options, func(o Option) bool { return o.Value == value })
}

// selectedIndex returns the index of the selected option, or 0 when there is
// none.
func (c *Combobox) selectedIndex() int {
	i := slices.IndexFunc(c.options, func(o Option) bool { return o.Value == c.selected })
	if i < 0 {
		return 0
	}
	return i
}
