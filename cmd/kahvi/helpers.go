package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/kahvi/internal/api"
	"github.com/Veraticus/kahvi/internal/config"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/Veraticus/kahvi/internal/storage"
)

// newClient builds the API client from the api.* settings.
func newClient(settings *config.Settings) (*api.Client, error) {
	retry := service.DefaultRetryOptions()
	retry.MaxAttempts = settings.API.Retries

	client, err := api.NewClient(settings.API.URL,
		api.WithTimeout(settings.API.Timeout),
		api.WithRetryOptions(retry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// newSource returns the data source commands read from. With the cache
// enabled, failed requests fall back to the last snapshot. The returned
// func releases the cache.
func newSource(ctx context.Context, settings *config.Settings) (service.DataSource, func(), error) {
	client, err := newClient(settings)
	if err != nil {
		return nil, nil, err
	}
	if !settings.Cache.Enabled {
		return client, func() {}, nil
	}

	store, err := initStorage(ctx, settings)
	if err != nil {
		slog.Warn("Snapshot cache unavailable, continuing without it",
			"path", settings.Cache.Path,
			"error", err)
		return client, func() {}, nil
	}
	return storage.NewCachedSource(client, store), func() { _ = store.Close() }, nil
}

// initStorage opens the snapshot cache and applies pending migrations.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.Cache.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
