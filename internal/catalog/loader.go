package catalog

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/logger"
	"github.com/osse101/prizegrid/internal/repository"
	"github.com/osse101/prizegrid/internal/validation"
)

//go:embed schema/catalog.schema.json
var seedSchema []byte

// Seed is the JSON catalog seed file
type Seed struct {
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Entries     []SeedEntry `json:"entries"`
}

// SeedEntry is one catalog entry as written in the seed file
type SeedEntry struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Rarity   int             `json:"rarity"`
	Tier     string          `json:"tier"`
	Quantity int             `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

func (e SeedEntry) toDomain() domain.CatalogEntry {
	return domain.CatalogEntry{
		Code:     e.Code,
		Name:     e.Name,
		Rarity:   e.Rarity,
		Tier:     e.Tier,
		Quantity: e.Quantity,
		UnitCost: e.UnitCost,
	}
}

// Loader handles loading, validating and syncing the catalog seed
type Loader interface {
	Load(path string) (*Seed, error)
	LoadBytes(data []byte) (*Seed, error)
	Validate(seed *Seed) error
	SyncToDatabase(ctx context.Context, seed *Seed, repo repository.Catalog, seedPath string) (*SyncResult, error)
}

// SyncResult contains the result of syncing the seed to the catalog store
type SyncResult struct {
	EntriesInserted int
	EntriesUpdated  int
	EntriesSkipped  int
}

type catalogLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader with the embedded seed schema registered
func NewLoader() (Loader, error) {
	v := validation.NewSchemaValidator()
	if err := v.Register(SeedSchemaName, seedSchema); err != nil {
		return nil, err
	}
	return &catalogLoader{schemaValidator: v}, nil
}

// Load reads, schema-checks and parses a seed file
func (l *catalogLoader) Load(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadSeedFailed, err)
	}
	return l.LoadBytes(data)
}

// LoadBytes schema-checks and parses seed JSON
func (l *catalogLoader) LoadBytes(data []byte) (*Seed, error) {
	if err := l.schemaValidator.ValidateBytes(data, SeedSchemaName); err != nil {
		return nil, fmt.Errorf(ErrMsgSchemaFailed, domain.ErrInvalidInput, err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf(ErrMsgParseSeedFailed, err)
	}
	return &seed, nil
}

// Validate applies the rules the schema cannot express
func (l *catalogLoader) Validate(seed *Seed) error {
	if seed == nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgSeedNil)
	}
	if len(seed.Entries) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNoEntries)
	}

	codes := make(map[string]struct{}, len(seed.Entries))
	for i, e := range seed.Entries {
		switch {
		case e.Code == "":
			return fmt.Errorf(ErrFmtEmptyCode, domain.ErrInvalidInput, i)
		case e.Rarity < domain.MinRarity || e.Rarity > domain.MaxRarity:
			return fmt.Errorf(ErrFmtRarityOutOfRange, domain.ErrInvalidInput, e.Code, e.Rarity, domain.MinRarity, domain.MaxRarity)
		case e.Quantity < 0:
			return fmt.Errorf(ErrFmtNegativeQuantity, domain.ErrInvalidInput, e.Code)
		case e.UnitCost.IsNegative():
			return fmt.Errorf(ErrFmtNegativeCost, domain.ErrInvalidInput, e.Code)
		}
		if _, dup := codes[e.Code]; dup {
			return fmt.Errorf(ErrFmtDuplicateCode, domain.ErrInvalidInput, e.Code)
		}
		codes[e.Code] = struct{}{}
	}
	return nil
}

// SyncToDatabase upserts changed entries. It is a no-op when the seed file
// hash matches the last recorded sync.
func (l *catalogLoader) SyncToDatabase(ctx context.Context, seed *Seed, repo repository.Catalog, seedPath string) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	fileHash, modTime, err := fileFingerprint(seedPath)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCheckFileChangeFailed, err)
	}

	if meta, err := repo.GetSyncMetadata(ctx, SyncConfigName); err == nil && meta != nil &&
		meta.FileHash == fileHash && meta.FileModTime.Equal(modTime) {
		log.Info(LogMsgSeedUnchanged, "path", seedPath)
		return &SyncResult{}, nil
	}

	existing, err := repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListExistingFailed, err)
	}
	byCode := make(map[string]domain.CatalogEntry, len(existing))
	for _, e := range existing {
		byCode[e.Code] = e
	}

	result := &SyncResult{}
	var changed []domain.CatalogEntry
	for _, se := range seed.Entries {
		want := se.toDomain()
		cur, ok := byCode[se.Code]
		switch {
		case !ok:
			result.EntriesInserted++
			changed = append(changed, want)
		case entryDiffers(cur, want):
			result.EntriesUpdated++
			changed = append(changed, want)
		default:
			result.EntriesSkipped++
		}
	}

	if len(changed) > 0 {
		if err := repo.UpsertEntries(ctx, changed); err != nil {
			return nil, fmt.Errorf(ErrMsgUpsertFailed, err)
		}
	}

	if err := repo.UpsertSyncMetadata(ctx, &domain.SyncMetadata{
		ConfigName:   SyncConfigName,
		LastSyncTime: time.Now(),
		FileHash:     fileHash,
		FileModTime:  modTime,
	}); err != nil {
		log.Warn(LogMsgUpdateMetadataFailed, "error", err)
	}

	log.Info(LogMsgSyncCompleted,
		"inserted", result.EntriesInserted,
		"updated", result.EntriesUpdated,
		"skipped", result.EntriesSkipped)

	return result, nil
}

func entryDiffers(cur, want domain.CatalogEntry) bool {
	return cur.Name != want.Name ||
		cur.Rarity != want.Rarity ||
		cur.Tier != want.Tier ||
		cur.Quantity != want.Quantity ||
		!cur.UnitCost.Equal(want.UnitCost)
}

func fileFingerprint(path string) (string, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), info.ModTime(), nil
}
