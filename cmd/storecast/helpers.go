package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/storecast/internal/config"
	"github.com/Veraticus/storecast/internal/forecast"
	"github.com/Veraticus/storecast/internal/predictor"
	"github.com/Veraticus/storecast/internal/schema"
	"github.com/Veraticus/storecast/internal/service"
	"github.com/Veraticus/storecast/internal/storage"
	"github.com/spf13/viper"
)

// app bundles what every prediction command needs.
type app struct {
	history  service.HistoryStore
	service  *forecast.Service
	settings config.Settings
}

func (a *app) Close() {
	if a.history == nil {
		return
	}
	if err := a.history.Close(); err != nil {
		slog.Warn("Failed to close history database", "error", err)
	}
}

// newApp loads settings, the model and, when enabled, the history database.
func newApp(ctx context.Context) (*app, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	m, err := predictor.Load(settings.ModelPath)
	if err != nil {
		return nil, err
	}

	a := &app{settings: settings}
	if settings.HistoryEnabled {
		a.history = initStorage(ctx, settings.DatabasePath)
	}

	svc, err := forecast.New(m, forecast.Options{
		History:      a.history,
		Aliases:      aliasResolver(settings),
		ModelPath:    settings.ModelPath,
		AliasField:   settings.AliasField,
		StaticSchema: settings.StaticSchema,
		CacheSize:    settings.CacheSize,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.service = svc

	return a, nil
}

func aliasResolver(settings config.Settings) *schema.Resolver {
	table := schema.FatContentAliases()
	if settings.Aliases != nil {
		table = schema.NewAliasTable(settings.Aliases)
	}
	return &schema.Resolver{
		Table:      table,
		Policy:     settings.UnknownPolicy,
		OtherLabel: settings.OtherLabel,
	}
}

// initStorage opens and migrates the history database. Predictions still work
// without history, so failures are logged and nil is returned.
func initStorage(ctx context.Context, dbPath string) service.HistoryStore {
	store, err := openStorage(ctx, dbPath)
	if err != nil {
		slog.Warn("Prediction history disabled", "database", dbPath, "error", err)
		return nil
	}
	return store
}

func openStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
