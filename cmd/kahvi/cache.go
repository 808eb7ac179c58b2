package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/kahvi/internal/cli"
	"github.com/Veraticus/kahvi/internal/storage"
	"github.com/spf13/cobra"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the local snapshot cache",
		Long: `Open the snapshot cache, applying pending schema migrations, and report
its schema version and stored snapshots.

With --purge-older-than, snapshots fetched longer ago than the given
duration are deleted first.`,
		Example: `  kahvi cache
  kahvi cache --purge-older-than 720h`,
		Args: cobra.NoArgs,
		RunE: runCache,
	}

	cmd.Flags().Duration("purge-older-than", 0, "delete snapshots older than this duration")

	return cmd
}

func runCache(cmd *cobra.Command, _ []string) error {
	purgeOlderThan, _ := cmd.Flags().GetDuration("purge-older-than")

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	slog.Debug("Opening snapshot cache", "database", settings.Cache.Path)

	store, err := initStorage(cmd.Context(), settings)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	return reportCache(cmd.Context(), cmd.OutOrStdout(), store, purgeOlderThan, time.Now())
}

func reportCache(ctx context.Context, w io.Writer, store *storage.SQLiteStorage, purgeOlderThan time.Duration, now time.Time) error {
	if purgeOlderThan > 0 {
		removed, err := store.Purge(ctx, now.Add(-purgeOlderThan))
		if err != nil {
			return fmt.Errorf("failed to purge cache: %w", err)
		}
		if _, err := fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Removed %d snapshots", removed))); err != nil {
			return err
		}
	}

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	content := fmt.Sprintf("Database: %s\n", store.Path()) +
		fmt.Sprintf("Schema version: %d of %d\n", version, storage.ExpectedSchemaVersion) +
		fmt.Sprintf("Snapshots: %d", len(keys))
	for _, key := range keys {
		content += "\n  • " + key
	}

	_, err = fmt.Fprintln(w, cli.RenderBox(cli.ChartIcon+" Snapshot cache", content))
	return err
}
