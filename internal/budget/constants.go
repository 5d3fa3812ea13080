package budget

// Usage ratio precision for reporting. Band decisions never use the rounded ratio.
const UsagePrecision = 6

// Log messages
const (
	LogMsgCeilingComputed   = "Ceiling computed"
	LogMsgCorrectionApplied = "Auto-trim applied"
	LogMsgNotAffordable     = "Ceiling is not positive, no prizes affordable"
)
