package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/kahvi/internal/cli"
	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/config"
	"github.com/Veraticus/kahvi/internal/fetcher"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Scrape store coffee prices into Postgres",
		Long: `Scrape the filter coffee listings of the configured grocery chains and
record them in the products_and_prices table that kahvi serve reads.

The first run of a store inserts its listing. Later runs close the open
price period of every product whose details changed or that disappeared
from the listing, then open a new period for the changed and new ones.

The database is configured the same way as for kahvi serve. With --dry-run
the listings are printed instead of stored.`,
		Args: cobra.NoArgs,
		RunE: runFetchCmd,
	}

	cmd.Flags().StringSlice("source", []string{config.FetchSourceKRuoka},
		fmt.Sprintf("stores to scrape (%s, %s)", config.FetchSourceKRuoka, config.FetchSourceSRyhma))
	cmd.Flags().String("env-file", ".env", "file of DB_* variables to load when present")
	cmd.Flags().Bool("dry-run", false, "print the scraped listings without writing them")

	_ = viper.BindPFlag("fetch.sources", cmd.Flags().Lookup("source"))

	return cmd
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	fetchers := newFetchers(settings)

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Fetch")
	ctx := interrupts.HandleInterrupts(cmd.Context(), "kahvi fetch")
	defer interrupts.Stop()

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return previewListings(ctx, cmd.OutOrStdout(), fetchers)
	}

	dbCfg, err := config.LoadDatabaseConfig(viper.GetViper())
	if err != nil {
		return err
	}
	writer, err := fetcher.NewPGWriter(ctx, dbCfg.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer writer.Close()

	results, err := runFetch(ctx, cmd.OutOrStdout(), fetchers, writer)
	if err != nil && interrupts.WasInterrupted() {
		return nil
	}
	if len(results) > 0 {
		if _, perr := fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Fetch complete", formatFetchResults(results))); perr != nil {
			return perr
		}
	}
	return err
}

// newFetchers builds one fetcher per configured store.
func newFetchers(settings *config.Settings) []fetcher.Fetcher {
	retry := service.DefaultRetryOptions()
	retry.MaxAttempts = settings.API.Retries
	opts := []fetcher.Option{
		fetcher.WithTimeout(settings.Fetch.Timeout),
		fetcher.WithRetryOptions(retry),
	}

	fetchers := make([]fetcher.Fetcher, 0, len(settings.Fetch.Sources))
	for _, src := range settings.Fetch.Sources {
		switch src {
		case config.FetchSourceKRuoka:
			fetchers = append(fetchers, fetcher.NewKRuoka(opts...))
		case config.FetchSourceSRyhma:
			fetchers = append(fetchers, fetcher.NewSRyhma(opts...))
		}
	}
	return fetchers
}

// runFetch runs every fetcher against w in turn. A failing store is logged
// and the rest still run; the returned error is set only when the context
// ends or no store could be stored.
func runFetch(ctx context.Context, out io.Writer, fetchers []fetcher.Fetcher, w fetcher.Writer) ([]fetcher.Result, error) {
	runner := fetcher.NewRunner(w)
	results := make([]fetcher.Result, 0, len(fetchers))
	failed := 0

	bar := cli.NewProgressBar(out, len(fetchers), "Scraping stores...")
	for _, f := range fetchers {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := runner.Run(ctx, f)
		results = append(results, res)
		if res.Err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			failed++
			common.LogError(res.Err, "Failed to update store listing", common.Fields{
				"source": res.DataSource,
			})
		}

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	if failed > 0 && failed == len(fetchers) {
		return results, common.NewUserError("No store listing could be stored.", results[0].Err)
	}
	return results, nil
}

func formatFetchResults(results []fetcher.Result) string {
	lines := make([]string, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			lines = append(lines, cli.FormatWarning(res.String()))
			continue
		}
		lines = append(lines, "  • "+res.String())
	}
	return strings.Join(lines, "\n")
}

// previewListings prints what each store lists right now.
func previewListings(ctx context.Context, w io.Writer, fetchers []fetcher.Fetcher) error {
	for _, f := range fetchers {
		products, err := f.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch %s listing: %w", f.DataSource(), err)
		}

		rows := make([][]string, 0, len(products))
		for _, p := range products {
			rows = append(rows, []string{
				p.ID,
				deref(p.NameFinnish),
				model.FormatOptionalAmount(p.NormalPrice),
				model.FormatOptionalAmount(p.BatchPrice),
				deref(p.BatchDiscountType),
			})
		}

		_, err = fmt.Fprintf(w, "%s\n%s\n%s\n",
			cli.FormatTitle(f.DataSource()),
			cli.RenderTable([]string{"ID", "Name", "Price", "Batch", "Offer"}, rows),
			cli.SubtitleStyle.Render(fmt.Sprintf("%d products", len(products))))
		if err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
