package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/kahvi/internal/chart"
	"github.com/Veraticus/kahvi/internal/cli"
	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/spf13/cobra"
)

// historyOptions holds the flags of `kahvi history`.
type historyOptions struct {
	pngPath   string
	maxLabels int
	batch     bool
}

func historyCmd() *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history <product-id>",
		Short: "Show the price history of one product",
		Long: `Print the price periods of a product as a terminal chart and a data
table. Product ids are listed by the browser and by 'kahvi coffees --json'.`,
		Example: `  kahvi history 42
  kahvi history 42 --batch --png juhla-mokka.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			opts.maxLabels = settings.Chart.MaxLabels
			opts.batch = opts.batch || settings.Chart.BatchSeries

			source, closeSource, err := newSource(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer closeSource()

			return runHistory(cmd.Context(), cmd.OutOrStdout(), source, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.pngPath, "png", "", "also write the chart to this PNG file")
	cmd.Flags().BoolVar(&opts.batch, "batch", false, "chart batch prices next to normal prices")

	return cmd
}

func runHistory(ctx context.Context, w io.Writer, source service.DataSource, productID string, opts historyOptions) error {
	history, err := source.History(ctx, productID)
	missing := fmt.Sprintf("No price history for product %s.", productID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError(missing, err)
	case err != nil:
		return fmt.Errorf("failed to fetch price history: %w", err)
	case len(history) == 0:
		return common.NewUserError(missing, common.ErrNotFound)
	}

	series := chart.Prepare(history,
		chart.WithMaxLabels(opts.maxLabels),
		chart.WithBatchSeries(opts.batch),
	)

	legend := fmt.Sprintf("%c %s", chart.NormalGlyph, chart.NormalSeriesName)
	if series.HasBatch() {
		legend += "   " + fmt.Sprintf("%c %s", chart.BatchGlyph, chart.BatchSeriesName)
	}
	lines := []string{
		cli.FormatTitle(series.Product + ": Price over time"),
		chart.Plot(series, 72, 12),
		cli.SubtitleStyle.Render(legend),
	}
	if summary, ok := chart.Summarize(history); ok {
		lines = append(lines, summary.String())
	}

	points := chart.DataPoints(history)
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.From, p.To, p.Price, p.PerWeight})
	}
	lines = append(lines, cli.RenderTable([]string{"From", "To", "Price", "Per kg"}, rows))

	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return err
	}

	if opts.pngPath == "" {
		return nil
	}
	if err := writePNG(opts.pngPath, series); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, cli.FormatSuccess("Chart written to "+opts.pngPath))
	return err
}

func writePNG(path string, series *chart.Series) error {
	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, series, chart.DefaultPNGOptions(series)); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
