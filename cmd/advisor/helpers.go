package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/abekenov/product-advisor/internal/config"
	"github.com/abekenov/product-advisor/internal/engine"
	"github.com/abekenov/product-advisor/internal/ingest"
	"github.com/abekenov/product-advisor/internal/notify"
	"github.com/abekenov/product-advisor/internal/policy"
	"github.com/abekenov/product-advisor/internal/scoring"
	"github.com/abekenov/product-advisor/internal/storage"
)

// app bundles everything a command needs, built once from the immutable
// configuration.
type app struct {
	cfg     *config.Config
	ledger  *ingest.CSVLedger
	storage *storage.SQLiteStorage
	engine  *engine.Engine
}

// newApp wires the full dependency graph for a command. showProgress enables
// the terminal progress bar for interactive batch runs.
func newApp(ctx context.Context, showProgress bool) (*app, error) {
	cfg, err := config.FromViper()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		closeStorage(store)
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	ledger := ingest.NewCSVLedger(cfg.Data.Dir)

	notifyClient, err := notify.NewClient(notify.Config{
		Provider: cfg.Notify.Provider,
		APIKey:   cfg.Notify.APIKey,
		APIURL:   cfg.Notify.APIURL,
		Model:    cfg.Notify.Model,
	})
	if err != nil {
		closeStorage(store)
		return nil, fmt.Errorf("failed to create notification client: %w", err)
	}

	names, err := clientNames(ctx, ledger)
	if err != nil {
		closeStorage(store)
		return nil, err
	}

	eng := engine.New(
		ledger,
		store,
		notify.NewPusher(notifyClient, names),
		scoring.NewRegistry(loadRates()),
		policy.New(),
		engine.NewCSVEmitter(cfg.Output.Path),
		engine.Config{Workers: cfg.Engine.Workers, ShowProgress: showProgress},
	)

	return &app{cfg: cfg, ledger: ledger, storage: store, engine: eng}, nil
}

// loadRates applies any `scoring.*` config overrides on top of the default
// rates table.
func loadRates() scoring.Rates {
	rates := scoring.DefaultRates()
	if err := viper.UnmarshalKey("scoring", &rates); err != nil {
		slog.Warn("Ignoring invalid scoring overrides", "error", err)
	}
	return rates
}

func (a *app) close() {
	closeStorage(a.storage)
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

func clientNames(ctx context.Context, ledger *ingest.CSVLedger) (map[int64]string, error) {
	profiles, err := ledger.LoadProfiles(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(profiles))
	for _, p := range profiles {
		if p.Name != "" {
			names[p.ClientID] = p.Name
		}
	}
	return names, nil
}
