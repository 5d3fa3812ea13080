package params

// Categorical field values
const (
	WeightingWeighted = "weighted"
	WeightingUniform  = "uniform"
	DuplicatesAllow   = "allow"
	DuplicatesDeny    = "deny"
)

// ratioPrecision is the number of decimal places kept when a ratio is given
// as a fraction like "2/3".
const ratioPrecision = 8

// Validation reasons
const (
	ReasonRequired     = "is required"
	ReasonRatioFormat  = "must be a ratio like 0.9, 90% or 9/10"
	ReasonFraction     = "must be greater than 0 and at most 1"
	ReasonDialBaseline = "must not exceed the baseline fraction %s"
	ReasonTrimTarget   = "must be greater than 0 and at most the green band limit %s"
	ReasonWeightRange  = "must be greater than 0 and at most 10"
	ReasonWeightCount  = "must list exactly %d weights"
	ReasonOneOf        = "must be one of: %s"
	ReasonNonNegative  = "must not be negative"
	ReasonDecimal      = "must be a decimal amount"
	ReasonInvalid      = "is invalid"
)

// Log messages
const (
	LogMsgParametersUpdated  = "Economic parameters updated"
	LogMsgParametersRejected = "Economic parameter update rejected"
	LogMsgParametersDefault  = "No stored parameters, using defaults"
	LogMsgPublishFailed      = "Failed to publish parameter update"
)

// Error messages
const (
	ErrMsgLoadFailed = "failed to load economic parameters: %w"
	ErrMsgSaveFailed = "failed to save economic parameters: %w"
)
