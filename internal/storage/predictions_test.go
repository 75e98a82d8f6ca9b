package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/model"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func samplePrediction(value float64, at time.Time) *model.Prediction {
	return &model.Prediction{
		CreatedAt: at,
		ModelPath: "trained_sales_model.json",
		Inputs: map[string]string{
			"Item_MRP":         "200",
			"Item_Fat_Content": "Low Fat",
		},
		Value: value,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	var indexCount int
	err = store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_predictions_created_at'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestSavePrediction_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := samplePrediction(3456.78, at)
	require.NoError(t, store.SavePrediction(ctx, p))
	assert.NotZero(t, p.ID)

	got, err := store.GetPredictionByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.ModelPath, got.ModelPath)
	assert.Equal(t, p.Inputs, got.Inputs)
	assert.InDelta(t, 3456.78, got.Value, 1e-9)
	assert.True(t, at.Equal(got.CreatedAt), "created_at %v, want %v", got.CreatedAt, at)
}

func TestSavePrediction_DefaultsCreatedAt(t *testing.T) {
	store := newTestStorage(t)

	p := samplePrediction(1, time.Time{})
	require.NoError(t, store.SavePrediction(context.Background(), p))
	assert.False(t, p.CreatedAt.IsZero())
}

func TestSavePrediction_Invalid(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name string
		p    *model.Prediction
		want error
	}{
		{name: "nil", p: nil, want: ErrNilParameter},
		{name: "no model path", p: &model.Prediction{Inputs: map[string]string{"a": "1"}}, want: ErrInvalidPrediction},
		{name: "no inputs", p: &model.Prediction{ModelPath: "m.json"}, want: ErrInvalidPrediction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SavePrediction(ctx, tt.p), tt.want)
		})
	}
}

func TestGetRecentPredictions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SavePrediction(ctx, samplePrediction(float64(i), base.Add(time.Duration(i)*time.Hour))))
	}

	recent, err := store.GetRecentPredictions(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.InDelta(t, 4.0, recent[0].Value, 1e-9)
	assert.InDelta(t, 3.0, recent[1].Value, 1e-9)
	assert.InDelta(t, 2.0, recent[2].Value, 1e-9)

	count, err := store.CountPredictions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	_, err = store.GetRecentPredictions(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestGetPredictionByID_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetPredictionByID(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage(" ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMarkBusy(t *testing.T) {
	tests := []struct {
		err       error
		name      string
		transient bool
	}{
		{name: "busy", err: fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), transient: true},
		{name: "locked", err: sqlite3.Error{Code: sqlite3.ErrLocked}, transient: true},
		{name: "constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}},
		{name: "plain", err: errors.New("disk on fire")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := markBusy(tt.err)
			assert.Equal(t, tt.transient, common.IsTransient(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}
