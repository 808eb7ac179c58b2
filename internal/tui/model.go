package tui

import (
	"errors"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/Veraticus/kahvi/internal/tui/components"
	"github.com/Veraticus/kahvi/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen identifies what the TUI currently shows.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenCoffees
	ScreenHistory
	ScreenEndpoints
)

// String returns the screen title.
func (s Screen) String() string {
	switch s {
	case ScreenHome:
		return "Home"
	case ScreenCoffees:
		return "Coffee prices"
	case ScreenHistory:
		return "Price history"
	case ScreenEndpoints:
		return "API endpoints"
	default:
		return "Unknown"
	}
}

type menuItem struct {
	shortcut string
	hint     string
	screen   Screen
}

var menu = []menuItem{
	{screen: ScreenCoffees, shortcut: "c", hint: "filter and sort current prices"},
	{screen: ScreenHistory, shortcut: "h", hint: "chart one product over time"},
	{screen: ScreenEndpoints, shortcut: "e", hint: "routes served by the API"},
}

// Model holds the main TUI state.
//
// Every visit to a screen is a new screen instance with its own id. Fetches
// remember the id they were started for and their results are dropped once
// the user has navigated elsewhere.
type Model struct {
	source     service.DataSource
	lastError  error
	theme      themes.Theme
	config     Config
	keymap     KeyMap
	help       help.Model
	spinner    spinner.Model
	coffees    components.CoffeeTableModel
	history    components.HistoryModel
	welcome    string
	endpoints  model.EndpointList
	screen     Screen
	screenID   int
	lastID     int
	menuCursor int
	width      int
	height     int
	loading    bool
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	m := Model{
		source:   cfg.Source,
		theme:    cfg.Theme,
		config:   cfg,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		screen:   ScreenHome,
		screenID: 1,
		lastID:   1,
		width:    cfg.Width,
		height:   cfg.Height,
		loading:  true,
	}
	m.coffees = components.NewCoffeeTableModel(m.theme)
	m.history = m.newHistory()
	m.handleResize()
	return m
}

func (m Model) newHistory() components.HistoryModel {
	selector := components.NewSelectionWidget(m.config.Selector, m.theme)
	return components.NewHistoryModel(selector, m.theme, m.config.ChartOptions...)
}

// Init loads the welcome message.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadWelcome(m.screenID))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case welcomeLoadedMsg:
		if m.live(msg.screenID) {
			m.loading = false
			m.lastError = msg.err
			if msg.err == nil && msg.welcome != nil {
				m.welcome = msg.welcome.Message
			}
		}
		return m, nil

	case endpointsLoadedMsg:
		if m.live(msg.screenID) {
			m.loading = false
			m.lastError = msg.err
			if msg.err == nil && msg.endpoints != nil {
				m.endpoints = *msg.endpoints
			}
		}
		return m, nil

	case coffeesLoadedMsg:
		if m.live(msg.screenID) {
			m.loading = false
			m.lastError = msg.err
			switch {
			case msg.err == nil:
				m.coffees.SetCoffees(msg.coffees)
			case errors.Is(msg.err, common.ErrNotFound):
				// The collection is gone upstream, not merely unreachable.
				m.coffees.Reset()
			}
		}
		return m, nil

	case productsLoadedMsg:
		if m.live(msg.screenID) {
			m.loading = false
			m.lastError = msg.err
			if msg.err == nil {
				m.history.SetProducts(msg.products)
			}
		}
		return m, nil

	case historyLoadedMsg:
		if m.live(msg.screenID) {
			m.handleHistory(msg)
		}
		return m, nil

	case components.SelectedMsg:
		if m.screen != ScreenHistory {
			return m, nil
		}
		m.history.Request(msg.Value, msg.Label)
		return m, m.loadHistory(m.screenID, msg.Value)
	}

	return m.updateScreen(msg)
}

// live reports whether a fetch started for screenID may still be applied.
func (m Model) live(screenID int) bool {
	if screenID != m.screenID {
		common.LogDebug("Dropping result for closed screen", common.Fields{
			"screen_id": screenID,
			"current":   m.screenID,
		})
		return false
	}
	return true
}

func (m *Model) handleHistory(msg historyLoadedMsg) {
	switch {
	case msg.err == nil:
		m.history.SetHistory(msg.productID, msg.history)
	case errors.Is(msg.err, common.ErrNotFound):
		// The API answers 404 for a product without any recorded price.
		m.history.SetHistory(msg.productID, nil)
	default:
		m.history.SetError(msg.productID, msg.err)
	}
}

// handleGlobalKeys handles keys that work on every screen. Text-consuming
// widgets get every key except ctrl+c.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return tea.Quit, true
	}
	if m.capturesInput() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Back):
		if m.screen == ScreenHome {
			return nil, true
		}
		return m.navigate(ScreenHome), true
	case key.Matches(msg, m.keymap.Refresh):
		if m.screen == ScreenHome {
			return nil, false
		}
		return m.reload(), true
	}
	return nil, false
}

func (m Model) capturesInput() bool {
	switch m.screen {
	case ScreenCoffees:
		return m.coffees.Focused()
	case ScreenHistory:
		return m.history.Focused()
	default:
		return false
	}
}

// navigate opens a fresh instance of screen and starts its fetch.
func (m *Model) navigate(screen Screen) tea.Cmd {
	m.lastID++
	m.screenID = m.lastID
	m.screen = screen
	m.lastError = nil
	m.loading = true

	switch screen {
	case ScreenHome:
		if m.welcome != "" {
			m.loading = false
			return nil
		}
		return m.loadWelcome(m.screenID)
	case ScreenCoffees:
		m.coffees = components.NewCoffeeTableModel(m.theme)
		m.handleResize()
		return m.loadCoffees(m.screenID)
	case ScreenHistory:
		m.history = m.newHistory()
		m.handleResize()
		return m.loadProducts(m.screenID)
	case ScreenEndpoints:
		m.endpoints = model.EndpointList{}
		return m.loadEndpoints(m.screenID)
	}
	return nil
}

// reload refetches the data of the current screen instance. Loaded data is
// replaced wholesale when the fetch succeeds and kept when it fails, unless
// the source reports the collection as not found.
func (m *Model) reload() tea.Cmd {
	m.lastError = nil
	m.loading = true

	switch m.screen {
	case ScreenCoffees:
		return m.loadCoffees(m.screenID)
	case ScreenEndpoints:
		return m.loadEndpoints(m.screenID)
	case ScreenHistory:
		cmds := []tea.Cmd{m.loadProducts(m.screenID)}
		if id := m.history.Pending(); id != "" {
			m.history.Request(id, "")
			cmds = append(cmds, m.loadHistory(m.screenID, id))
		}
		return tea.Batch(cmds...)
	}
	m.loading = false
	return nil
}

// updateScreen delegates to the active screen.
func (m Model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.screen {
	case ScreenHome:
		return m.updateHome(msg)
	case ScreenCoffees:
		m.coffees, cmd = m.coffees.Update(msg)
	case ScreenHistory:
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

func (m Model) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keymap.Up):
		m.menuCursor = (m.menuCursor + len(menu) - 1) % len(menu)
	case key.Matches(keyMsg, m.keymap.Down):
		m.menuCursor = (m.menuCursor + 1) % len(menu)
	case key.Matches(keyMsg, m.keymap.Select):
		return m, m.navigate(menu[m.menuCursor].screen)
	default:
		for _, item := range menu {
			if keyMsg.String() == item.shortcut {
				return m, m.navigate(item.screen)
			}
		}
	}
	return m, nil
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	// Header and status bar take three lines each.
	bodyHeight := max(m.height-6, 8)
	m.coffees.Resize(m.width, bodyHeight)
	m.history.Resize(m.width, bodyHeight)
	m.help.Width = m.width
}
