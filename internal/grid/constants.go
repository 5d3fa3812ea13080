package grid

// Default grid shape
const (
	DefaultRanks  = 4
	DefaultRounds = 3
)

// Default tier labels, highest rank first
const (
	TierGold     = "gold"
	TierSilver   = "silver"
	TierBronze   = "bronze"
	TierStandard = "standard"
)

// CellSeedFormat derives a per-cell seed from the event seed and 1-based coordinates.
const CellSeedFormat = "%s-R%dC%d"

// Error messages
const (
	ErrMsgEmptyTemplate  = "template has no ranks"
	ErrMsgEmptyRank      = "rank %d has no rounds"
	ErrMsgRaggedTemplate = "rank %d has %d rounds, want %d"
	ErrMsgBlankTier      = "rank %d round %d has a blank tier"
)
