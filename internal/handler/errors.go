package handler

// Generic HTTP error messages for client responses.
// Internal error details are never echoed back; handlers and tests share these.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgMissingPathParam      = "Missing %s path parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"
)

// User-facing messages for service errors, see mapServiceErrorToUserMessage
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgEventNotFoundError  = "Event not found"
	ErrMsgRunNotFoundError    = "Allocation run not found or expired. Preview again."
	ErrMsgLedgerNotFoundError = "Ledger entry not found"
	ErrMsgEntryNotFoundError  = "Catalog entry not found"
	ErrMsgConflictError       = "Catalog stock changed while committing. Preview again."
	ErrMsgInvalidStateError   = "Allocation run cannot move to that state"
	ErrMsgBudgetExceededError = "Allocation is over budget. Confirm to commit anyway."
	ErrMsgConfigurationError  = "Economic parameters are misconfigured"
	ErrMsgPersistenceError    = "Allocation could not be saved. Nothing was committed."
	ErrMsgValidationError     = "Parameter update rejected"
)

// Success messages
const (
	MsgEventCreated = "Event created"
)

// Log messages
const (
	LogMsgDecodeFailed        = "Failed to decode request"
	LogMsgRequestDecoded      = "Request decoded"
	LogMsgMissingQueryParam   = "Missing query parameter"
	LogMsgServiceError        = "Service call failed"
	LogMsgEncodeFailed        = "Failed to encode JSON response"
	LogMsgWriteFailed         = "Failed to write response buffer"
	LogMsgReadinessFailed     = "Readiness check failed"
	LogMsgVerificationFailed  = "Ledger verification failed"
	LogMsgAllocationCommitted = "Allocation committed"
)

// Health status values
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
	HealthMsgDBFailed       = "database connection failed"
)
