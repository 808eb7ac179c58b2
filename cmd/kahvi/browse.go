package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/kahvi/internal/chart"
	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/config"
	"github.com/Veraticus/kahvi/internal/tui"
	"github.com/Veraticus/kahvi/internal/tui/components"
	"github.com/Veraticus/kahvi/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse coffee prices in the terminal UI",
		Long: `Open the interactive browser: the API welcome screen, the filterable
and sortable price table, per-product price history charts and the endpoint
listing.

Logs are written to logging.file while the UI owns the terminal.`,
		Args: cobra.NoArgs,
		RunE: runBrowse,
	}

	cmd.Flags().String("selector", "", "product picker on the history screen (search, list)")
	cmd.Flags().String("theme", "", "color theme ("+strings.Join(themes.Names(), ", ")+")")
	cmd.Flags().Bool("batch", false, "chart batch prices next to normal prices")

	_ = viper.BindPFlag("ui.selector", cmd.Flags().Lookup("selector"))
	_ = viper.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag("chart.batch_series", cmd.Flags().Lookup("batch"))

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	opts, err := tuiOptions(settings)
	if err != nil {
		return err
	}

	level, err := common.ParseLevel(settings.Logging.Level)
	if err != nil {
		return err
	}
	logFile, err := common.SetupFileLogger(settings.Logging.File, level, settings.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	source, closeSource, err := newSource(ctx, settings)
	if err != nil {
		return err
	}
	defer closeSource()

	slog.Info("Starting browser", "api", settings.API.URL, "theme", settings.UI.Theme)

	return tui.Run(ctx, append(opts, tui.WithSource(source))...)
}

// tuiOptions translates settings into TUI options.
func tuiOptions(settings *config.Settings) ([]tui.Option, error) {
	theme, ok := themes.ByName(settings.UI.Theme)
	if !ok {
		return nil, fmt.Errorf("%w: unknown theme %q (available: %s)",
			common.ErrInvalidConfig, settings.UI.Theme, strings.Join(themes.Names(), ", "))
	}

	return []tui.Option{
		tui.WithTheme(theme),
		tui.WithSelector(components.Selector(settings.UI.Selector)),
		tui.WithFetchTimeout(settings.API.Timeout * time.Duration(settings.API.Retries+1)),
		tui.WithChartOptions(
			chart.WithMaxLabels(settings.Chart.MaxLabels),
			chart.WithBatchSeries(settings.Chart.BatchSeries),
		),
	}, nil
}
