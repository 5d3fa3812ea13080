package domain

import "github.com/shopspring/decimal"

// Rarity score bounds for catalog entries
const (
	MinRarity = 0
	MaxRarity = 10
)

// CatalogEntry is a read-only snapshot of one rewardable item for the duration
// of an allocation run. Version is the optimistic-concurrency token bumped on
// every quantity change.
type CatalogEntry struct {
	Code     string          `json:"code" db:"code"`
	Name     string          `json:"name" db:"name"`
	Rarity   int             `json:"rarity" db:"rarity"`
	Tier     string          `json:"tier" db:"tier"`
	Quantity int             `json:"quantity" db:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	Version  int64           `json:"version" db:"version"`
}

// Available reports whether at least one unit remains.
func (e CatalogEntry) Available() bool {
	return e.Quantity > 0
}
