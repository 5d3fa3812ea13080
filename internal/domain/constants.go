package domain

// Ledger tags naming the policy branches that fired during a run
const (
	TagAutoTrimApplied         = "auto-trim applied"
	TagBudgetExceededConfirmed = "budget exceeded confirmed"
	TagNotAffordable           = "not affordable"
	TagEligibilityGap          = "eligibility gap"
	TagDialClamped             = "dial clamped to baseline"
	TagBlendedCapApplied       = "blended cap applied"
	TagBelowPlayerFloor        = "below player floor"
	TagWeightingDisabled       = "weighting disabled"
	TagDuplicatesAllowed       = "duplicates allowed"
)
