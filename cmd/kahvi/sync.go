package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/kahvi/internal/cli"
	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/Veraticus/kahvi/internal/storage"
	"github.com/spf13/cobra"
)

// syncStats summarizes one `kahvi sync` run.
type syncStats struct {
	Products  int
	Histories int
	Missing   int
	Failed    int
	Stale     int
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fill the snapshot cache for offline browsing",
		Long: `Fetch the welcome message, endpoint listing, current prices, product
list and the price history of every product, saving each response to the
local snapshot cache. The browser falls back to these snapshots whenever the
API cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			client, err := newClient(settings)
			if err != nil {
				return err
			}

			store, err := initStorage(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Sync")
			ctx := interrupts.HandleInterrupts(cmd.Context(), "kahvi sync")
			defer interrupts.Stop()

			stats, err := runSync(ctx, cmd.OutOrStdout(), client, store)
			if err != nil {
				if interrupts.WasInterrupted() {
					return nil
				}
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Sync complete", formatSyncStats(stats, store.Path())))
			return err
		},
	}
}

// runSync fetches every resource through a CachedSource so each successful
// response lands in store. Snapshots served in place of a failed request
// are counted as stale. A product without history or whose history cannot
// be fetched does not stop the run.
func runSync(ctx context.Context, w io.Writer, source service.DataSource, store service.SnapshotStore) (syncStats, error) {
	var stats syncStats

	cached := storage.NewCachedSource(source, store)
	cached.OnStale(func(key string, fetchedAt time.Time, cause error) {
		stats.Stale++
		slog.Warn("API request failed, kept cached snapshot",
			"key", key,
			"fetched_at", fetchedAt,
			"error", cause)
	})

	if _, err := cached.Welcome(ctx); err != nil {
		return stats, fmt.Errorf("failed to fetch welcome message: %w", err)
	}
	if _, err := cached.Endpoints(ctx); err != nil {
		return stats, fmt.Errorf("failed to fetch endpoints: %w", err)
	}
	if _, err := cached.Coffees(ctx); err != nil {
		return stats, fmt.Errorf("failed to fetch coffees: %w", err)
	}
	products, err := cached.Products(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch products: %w", err)
	}
	stats.Products = len(products)

	bar := cli.NewProgressBar(w, len(products), "Caching price histories...")
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		_, err := cached.History(ctx, p.ID)
		switch {
		case err == nil:
			stats.Histories++
		case errors.Is(err, common.ErrNotFound):
			stats.Missing++
		case ctx.Err() != nil:
			return stats, ctx.Err()
		default:
			stats.Failed++
			common.LogError(err, "Failed to cache price history", common.Fields{
				"product_id": p.ID,
				"product":    p.Label(),
			})
		}

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	return stats, nil
}

func formatSyncStats(stats syncStats, path string) string {
	summary := fmt.Sprintf("  • Products: %d\n", stats.Products) +
		fmt.Sprintf("  • Price histories cached: %d\n", stats.Histories) +
		fmt.Sprintf("  • Products without history: %d\n", stats.Missing)
	if stats.Failed > 0 {
		summary += cli.FormatWarning(fmt.Sprintf("%d histories could not be fetched", stats.Failed)) + "\n"
	}
	if stats.Stale > 0 {
		summary += cli.FormatWarning(fmt.Sprintf("%d responses were served from older snapshots", stats.Stale)) + "\n"
	}
	return summary + cli.SubtitleStyle.Render("Cache: "+path)
}
