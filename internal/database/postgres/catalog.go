package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/prizegrid/internal/domain"
)

const catalogColumns = `code, name, rarity, tier, quantity, unit_cost, version`

// CatalogRepository implements repository.Catalog for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetEligibleEntries returns in-stock entries ordered by code. An empty tier
// matches every tier. Codes sort bytewise so the selection pool does not
// depend on the database locale.
func (r *CatalogRepository) GetEligibleEntries(ctx context.Context, tier string, excludeCodes []string) ([]domain.CatalogEntry, error) {
	if excludeCodes == nil {
		excludeCodes = []string{}
	}
	query := `
		SELECT ` + catalogColumns + `
		FROM catalog_entries
		WHERE quantity > 0
		  AND ($1 = '' OR tier = $1)
		  AND NOT (code = ANY($2))
		ORDER BY code COLLATE "C"
	`
	rows, err := r.db.Query(ctx, query, tier, excludeCodes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryCatalog, err)
	}
	return collectEntries(rows)
}

// ListEntries returns the full catalog ordered by tier then code
func (r *CatalogRepository) ListEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+catalogColumns+` FROM catalog_entries ORDER BY tier COLLATE "C", code COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryCatalog, err)
	}
	return collectEntries(rows)
}

// UpsertEntries inserts or replaces entries by code in one transaction.
// Every replaced row gets a new version.
func (r *CatalogRepository) UpsertEntries(ctx context.Context, entries []domain.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	query := `
		INSERT INTO catalog_entries (code, name, rarity, tier, quantity, unit_cost, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, NOW())
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			rarity = EXCLUDED.rarity,
			tier = EXCLUDED.tier,
			quantity = EXCLUDED.quantity,
			unit_cost = EXCLUDED.unit_cost,
			version = catalog_entries.version + 1,
			updated_at = NOW()
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, e.Code, e.Name, e.Rarity, e.Tier, e.Quantity, e.UnitCost)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertEntries, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// GetSyncMetadata returns nil when the config was never synced
func (r *CatalogRepository) GetSyncMetadata(ctx context.Context, name string) (*domain.SyncMetadata, error) {
	var meta domain.SyncMetadata
	err := r.db.QueryRow(ctx, `
		SELECT config_name, last_sync_time, file_hash, file_mod_time
		FROM sync_metadata
		WHERE config_name = $1
	`, name).Scan(&meta.ConfigName, &meta.LastSyncTime, &meta.FileHash, &meta.FileModTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSyncMeta, err)
	}
	return &meta, nil
}

// UpsertSyncMetadata records the last sync of a config file
func (r *CatalogRepository) UpsertSyncMetadata(ctx context.Context, meta *domain.SyncMetadata) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sync_metadata (config_name, last_sync_time, file_hash, file_mod_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (config_name) DO UPDATE SET
			last_sync_time = EXCLUDED.last_sync_time,
			file_hash = EXCLUDED.file_hash,
			file_mod_time = EXCLUDED.file_mod_time
	`, meta.ConfigName, meta.LastSyncTime, meta.FileHash, meta.FileModTime)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertSyncMeta, err)
	}
	return nil
}

func collectEntries(rows pgx.Rows) ([]domain.CatalogEntry, error) {
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CatalogEntry, error) {
		var e domain.CatalogEntry
		err := row.Scan(&e.Code, &e.Name, &e.Rarity, &e.Tier, &e.Quantity, &e.UnitCost, &e.Version)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanEntry, err)
	}
	return entries, nil
}
