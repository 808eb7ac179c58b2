// Package testutil provides shared fixtures for kahvi tests: an isolated
// snapshot database, a scriptable in-memory DataSource and sample records.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/kahvi/internal/storage"
)

// SetupTestDB creates a migrated in-memory snapshot database that is closed
// when the test ends.
//
// Example:
//
//	store := testutil.SetupTestDB(t)
//	cached := storage.NewCachedSource(source, store)
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
