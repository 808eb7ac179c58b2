package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/spf13/viper"
)

// Selector names the widget used to pick a product on the history screen.
const (
	SelectorSearch = "search"
	SelectorList   = "list"
)

// Store chains `kahvi fetch` can scrape.
const (
	FetchSourceKRuoka = "k-ruoka"
	FetchSourceSRyhma = "s-ryhma"
)

// DefaultAllowedOrigins are the Expo development servers allowed by CORS.
var DefaultAllowedOrigins = []string{
	"http://localhost:49106",
	"http://localhost:49100",
	"http://localhost:49101",
	"http://localhost:19006",
	"http://localhost:19000",
	"http://localhost:19001",
}

// Settings is the typed view of the viper configuration.
type Settings struct {
	API     APISettings
	Cache   CacheSettings
	Chart   ChartSettings
	UI      UISettings
	Server  ServerSettings
	Fetch   FetchSettings
	Logging LoggingSettings
}

// APISettings configures the coffee price API client.
type APISettings struct {
	URL     string
	Timeout time.Duration
	Retries int
}

// CacheSettings configures the local snapshot cache.
type CacheSettings struct {
	Path    string
	Enabled bool
}

// ChartSettings configures price history charts.
type ChartSettings struct {
	MaxLabels   int
	BatchSeries bool
}

// UISettings configures the terminal UI.
type UISettings struct {
	Selector string
	Theme    string
}

// ServerSettings configures `kahvi serve`.
type ServerSettings struct {
	Addr           string
	AllowedOrigins []string
	QueryTimeout   time.Duration
}

// FetchSettings configures the store scrapers of `kahvi fetch`.
type FetchSettings struct {
	Sources []string
	Timeout time.Duration
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://localhost:8000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.retries", 3)
	v.SetDefault("cache.path", "~/.local/share/kahvi/cache.db")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("chart.max_labels", 8)
	v.SetDefault("chart.batch_series", false)
	v.SetDefault("ui.selector", SelectorSearch)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("server.query_timeout", 10*time.Second)
	v.SetDefault("fetch.sources", []string{FetchSourceKRuoka})
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "~/.cache/kahvi/kahvi.log")
}

// Load reads Settings from v and validates them.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		API: APISettings{
			URL:     v.GetString("api.url"),
			Timeout: v.GetDuration("api.timeout"),
			Retries: v.GetInt("api.retries"),
		},
		Cache: CacheSettings{
			Path:    ExpandPath(v.GetString("cache.path")),
			Enabled: v.GetBool("cache.enabled"),
		},
		Chart: ChartSettings{
			MaxLabels:   v.GetInt("chart.max_labels"),
			BatchSeries: v.GetBool("chart.batch_series"),
		},
		UI: UISettings{
			Selector: v.GetString("ui.selector"),
			Theme:    v.GetString("ui.theme"),
		},
		Server: ServerSettings{
			Addr:           v.GetString("server.addr"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
			QueryTimeout:   v.GetDuration("server.query_timeout"),
		},
		Fetch: FetchSettings{
			Sources: v.GetStringSlice("fetch.sources"),
			Timeout: v.GetDuration("fetch.timeout"),
		},
		Logging: LoggingSettings{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for values the client cannot work with.
func (s *Settings) Validate() error {
	if s.API.URL == "" {
		return fmt.Errorf("%w: api.url is required", common.ErrMissingConfig)
	}
	if s.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if s.API.Retries < 1 {
		return fmt.Errorf("%w: api.retries must be at least 1", common.ErrInvalidConfig)
	}
	if s.Server.QueryTimeout <= 0 {
		return fmt.Errorf("%w: server.query_timeout must be positive", common.ErrInvalidConfig)
	}
	if s.Chart.MaxLabels < 1 {
		return fmt.Errorf("%w: chart.max_labels must be at least 1", common.ErrInvalidConfig)
	}
	switch s.UI.Selector {
	case SelectorSearch, SelectorList:
	default:
		return fmt.Errorf("%w: ui.selector must be %q or %q, got %q",
			common.ErrInvalidConfig, SelectorSearch, SelectorList, s.UI.Selector)
	}
	if len(s.Fetch.Sources) == 0 {
		return fmt.Errorf("%w: fetch.sources must name at least one store", common.ErrInvalidConfig)
	}
	for _, src := range s.Fetch.Sources {
		if src != FetchSourceKRuoka && src != FetchSourceSRyhma {
			return fmt.Errorf("%w: fetch.sources must be %q or %q, got %q",
				common.ErrInvalidConfig, FetchSourceKRuoka, FetchSourceSRyhma, src)
		}
	}
	if s.Fetch.Timeout <= 0 {
		return fmt.Errorf("%w: fetch.timeout must be positive", common.ErrInvalidConfig)
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format: %s", common.ErrInvalidConfig, s.Logging.Format)
	}
	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		return err
	}
	return nil
}
