package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/config"
	"github.com/Veraticus/itemquery/internal/engine"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/service"
	"github.com/Veraticus/itemquery/internal/storage"
)

// openStore opens and migrates the snapshot database.
func openStore(ctx context.Context, cfg *config.Config) (service.CatalogStore, error) {
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return store, nil
}

// loadCatalog reads the catalog from source files when configured, otherwise
// from the newest stored snapshot.
func loadCatalog(ctx context.Context, cfg *config.Config) (*model.Catalog, error) {
	if cfg.UsesFiles() {
		slog.Debug("Loading catalog files", "stats", cfg.StatsPath, "filters", cfg.FiltersPath)
		return catalog.LoadFiles(cfg.StatsPath, cfg.FiltersPath)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	cat, snapshot, err := store.LoadCatalog(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError("no catalog imported yet; run: itemquery catalog import --stats FILE --filters FILE", err)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded catalog snapshot", "id", snapshot.ID, "entries", snapshot.Entries)
	return cat, nil
}

// compileCatalog loads and compiles the configured catalog.
func compileCatalog(ctx context.Context, cfg *config.Config) (*catalog.Compiled, []catalog.Warning, error) {
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return catalog.Compile(ctx, cat, catalog.DefaultOptions())
}

// buildEngine compiles the catalog and wires the parse pipeline.
func buildEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, error) {
	compiled, _, err := compileCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	engineCfg, err := cfg.Engine()
	if err != nil {
		return nil, err
	}
	return engine.New(compiled, engineCfg)
}
