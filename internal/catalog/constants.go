package catalog

// Seed file identity used for sync metadata
const (
	SeedSchemaName = "catalog.schema.json"
	SyncConfigName = "catalog_seed"
)

// Error messages
const (
	ErrMsgReadSeedFailed        = "failed to read catalog seed: %w"
	ErrMsgParseSeedFailed       = "failed to parse catalog seed: %w"
	ErrMsgSchemaFailed          = "%w: catalog seed schema validation failed: %v"
	ErrMsgSeedNil               = "seed is nil"
	ErrMsgNoEntries             = "no entries defined"
	ErrFmtEmptyCode             = "%w: entry at index %d has empty code"
	ErrFmtDuplicateCode         = "%w: duplicate code %q"
	ErrFmtRarityOutOfRange      = "%w: entry %q rarity %d outside [%d, %d]"
	ErrFmtNegativeQuantity      = "%w: entry %q has negative quantity"
	ErrFmtNegativeCost          = "%w: entry %q has negative unit cost"
	ErrMsgListExistingFailed    = "failed to list existing entries: %w"
	ErrMsgUpsertFailed          = "failed to upsert entries: %w"
	ErrMsgCheckFileChangeFailed = "failed to check catalog seed change: %w"
)

// Log messages
const (
	LogMsgSeedUnchanged        = "Catalog seed unchanged, skipping sync"
	LogMsgSyncCompleted        = "Catalog sync completed"
	LogMsgUpdateMetadataFailed = "Failed to update catalog sync metadata"
)
