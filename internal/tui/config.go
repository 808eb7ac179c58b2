package tui

import (
	"time"

	"github.com/Veraticus/kahvi/internal/chart"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/Veraticus/kahvi/internal/tui/components"
	"github.com/Veraticus/kahvi/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Source       service.DataSource
	Theme        themes.Theme
	Selector     components.Selector
	ChartOptions []chart.Option
	FetchTimeout time.Duration
	Width        int
	Height       int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		Selector:     components.SelectorSearch,
		FetchTimeout: 30 * time.Second,
		Width:        80,
		Height:       24,
	}
}

// WithSource sets where coffee data is fetched from.
func WithSource(source service.DataSource) Option {
	return func(c *Config) {
		c.Source = source
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSelector picks the product picker of the history screen.
func WithSelector(kind components.Selector) Option {
	return func(c *Config) {
		c.Selector = kind
	}
}

// WithChartOptions configures history chart preparation.
func WithChartOptions(opts ...chart.Option) Option {
	return func(c *Config) {
		c.ChartOptions = opts
	}
}

// WithFetchTimeout bounds every fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.FetchTimeout = d
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
