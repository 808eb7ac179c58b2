package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Veraticus/kahvi/internal/storage"
	"github.com/Veraticus/kahvi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCache(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	require.NoError(t, store.Save(ctx, storage.KeyCoffees, testutil.SampleCoffees()))
	require.NoError(t, store.Save(ctx, storage.HistoryKey("1"), testutil.SampleHistory()))

	var out bytes.Buffer
	require.NoError(t, reportCache(ctx, &out, store, 0, time.Now()))

	assert.Contains(t, out.String(), "Schema version: 2 of 2")
	assert.Contains(t, out.String(), "Snapshots: 2")
	assert.Contains(t, out.String(), "history/1")
}

func TestReportCache_Purge(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	require.NoError(t, store.Save(ctx, storage.KeyCoffees, testutil.SampleCoffees()))

	var out bytes.Buffer
	require.NoError(t, reportCache(ctx, &out, store, time.Hour, time.Now().Add(2*time.Hour)))

	assert.Contains(t, out.String(), "Removed 1 snapshots")
	assert.Contains(t, out.String(), "Snapshots: 0")
}
