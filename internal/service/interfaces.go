// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/itemquery/internal/model"
)

// CatalogStore persists imported stat catalogs.
type CatalogStore interface {
	SaveCatalog(ctx context.Context, cat *model.Catalog, source string, progress func(done, total int)) (*model.CatalogSnapshot, bool, error)
	LoadCatalog(ctx context.Context) (*model.Catalog, *model.CatalogSnapshot, error)
	ListSnapshots(ctx context.Context) ([]model.CatalogSnapshot, error)
	PruneSnapshots(ctx context.Context, keep int) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}

// TradeClient runs an assembled search against the trade service and fetches
// the listings it returns. The parse pipeline never calls it; it is the seam
// for the transport layer that consumes parsed queries.
type TradeClient interface {
	Search(ctx context.Context, league string, req model.Request) (searchID string, resultIDs []string, err error)
	Fetch(ctx context.Context, searchID string, resultIDs []string) ([]model.ResultItem, error)
}
