package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/storecast/internal/model"
	"github.com/Veraticus/storecast/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_Migrated(t *testing.T) {
	db := SetupTestDB(t)

	version, err := db.Storage.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, storage.ExpectedSchemaVersion, version)
	assert.Empty(t, db.MustRecent(5))
}

func TestSetupTestDBWithOptions_Seeds(t *testing.T) {
	setupRan := false
	db := SetupTestDBWithOptions(t, TestDBOptions{
		Predictions: []model.Prediction{
			{Inputs: map[string]string{"Item_MRP": "100"}, Value: 350},
			{Inputs: map[string]string{"Item_MRP": "200"}, Value: 550},
		},
		CustomSetup: func(_ context.Context, _ *storage.SQLiteStorage) error {
			setupRan = true
			return nil
		},
	})

	assert.True(t, setupRan)
	recent := db.MustRecent(5)
	require.Len(t, recent, 2)
	assert.InDelta(t, 550.0, recent[0].Value, 1e-9)
	assert.Equal(t, "trained_sales_model.json", recent[1].ModelPath)
}
