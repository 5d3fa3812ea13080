package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/prizegrid/internal/catalog"
	"github.com/osse101/prizegrid/internal/repository"
)

// SyncCatalog loads, validates, and syncs the catalog seed into the store.
// The loader fingerprints the seed file, so an unchanged file is a no-op.
func SyncCatalog(ctx context.Context, repo repository.Catalog, seedPath string) (*catalog.SyncResult, error) {
	slog.Info(LogMsgSyncingCatalog, "path", seedPath)

	loader, err := catalog.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateLoader, err)
	}

	seed, err := loader.Load(seedPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	if err := loader.Validate(seed); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidCatalog, err)
	}

	result, err := loader.SyncToDatabase(ctx, seed, repo, seedPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedSyncCatalog, err)
	}

	if result.EntriesInserted > 0 || result.EntriesUpdated > 0 {
		slog.Info(LogMsgCatalogSynced,
			"inserted", result.EntriesInserted,
			"updated", result.EntriesUpdated,
			"skipped", result.EntriesSkipped)
	} else {
		slog.Info(LogMsgCatalogUnchanged)
	}

	return result, nil
}
