package audit

import (
	"github.com/osse101/prizegrid/internal/budget"
	"github.com/osse101/prizegrid/internal/domain"
)

// TagInput collects the facts that decide which policy tags fire.
type TagInput struct {
	Event      domain.EventContext
	Params     domain.EconomicParameters
	Ceiling    budget.Ceiling
	Correction budget.Correction
	GapCount   int
	// OverBudgetConfirmed is set when the caller accepted a RED run at commit.
	OverBudgetConfirmed bool
}

// BuildTags lists the policy branches that fired, in a fixed order.
func BuildTags(in TagInput) []string {
	tags := []string{}
	if !in.Ceiling.Affordable() {
		tags = append(tags, domain.TagNotAffordable)
	}
	if in.Ceiling.DialClamped {
		tags = append(tags, domain.TagDialClamped)
	}
	if in.Ceiling.SecondaryCapApplied {
		tags = append(tags, domain.TagBlendedCapApplied)
	}
	if in.Correction.WasTrimmed {
		tags = append(tags, domain.TagAutoTrimApplied)
	}
	if in.OverBudgetConfirmed {
		tags = append(tags, domain.TagBudgetExceededConfirmed)
	}
	if in.GapCount > 0 {
		tags = append(tags, domain.TagEligibilityGap)
	}
	if floor := in.Params.Floor(in.Event.Category); floor.MinPlayers > 0 && in.Event.PlayerCount < floor.MinPlayers {
		tags = append(tags, domain.TagBelowPlayerFloor)
	}
	if !in.Params.WeightingEnabled {
		tags = append(tags, domain.TagWeightingDisabled)
	}
	if in.Params.AllowDuplicates {
		tags = append(tags, domain.TagDuplicatesAllowed)
	}
	return tags
}
