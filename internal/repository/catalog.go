package repository

import (
	"context"

	"github.com/osse101/prizegrid/internal/domain"
)

// Catalog is the read side of the catalog store plus seed sync.
type Catalog interface {
	// GetEligibleEntries returns in-stock entries of tier not in excludeCodes,
	// ordered by code. An empty tier returns every tier.
	GetEligibleEntries(ctx context.Context, tier string, excludeCodes []string) ([]domain.CatalogEntry, error)

	// ListEntries returns the full catalog ordered by tier then code.
	ListEntries(ctx context.Context) ([]domain.CatalogEntry, error)

	// UpsertEntries inserts or replaces entries by code, bumping Version.
	UpsertEntries(ctx context.Context, entries []domain.CatalogEntry) error

	GetSyncMetadata(ctx context.Context, name string) (*domain.SyncMetadata, error)
	UpsertSyncMetadata(ctx context.Context, meta *domain.SyncMetadata) error
}
