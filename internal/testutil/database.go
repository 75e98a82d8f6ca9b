// Package testutil provides shared fixtures for tests that need a real history database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/storecast/internal/model"
	"github.com/Veraticus/storecast/internal/storage"
)

// TestDB is a migrated SQLite history database that is closed when the test ends.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Predictions    []model.Prediction
	SkipMigrations bool
}

// SetupTestDB creates a migrated history database in the test's temp dir.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	svc, _ := forecast.New(m, forecast.Options{History: db.Storage})
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := &TestDB{Storage: store, t: t}
	for _, p := range opts.Predictions {
		db.MustSave(p)
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return db
}

// MustSave records p and returns it with its assigned ID.
func (db *TestDB) MustSave(p model.Prediction) model.Prediction {
	db.t.Helper()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	if p.ModelPath == "" {
		p.ModelPath = "trained_sales_model.json"
	}
	if err := db.Storage.SavePrediction(context.Background(), &p); err != nil {
		db.t.Fatalf("failed to seed prediction: %v", err)
	}
	return p
}

// MustRecent returns up to limit recorded predictions, newest first.
func (db *TestDB) MustRecent(limit int) []model.Prediction {
	db.t.Helper()
	predictions, err := db.Storage.GetRecentPredictions(context.Background(), limit)
	if err != nil {
		db.t.Fatalf("failed to list predictions: %v", err)
	}
	return predictions
}
