package allocation

import "time"

// Run cache defaults
const (
	DefaultRunCacheSize = 1024
	DefaultRunTTL       = 30 * time.Minute
)

// Log messages
const (
	LogMsgPreviewStarted     = "Allocation preview started"
	LogMsgPreviewed          = "Allocation run previewed"
	LogMsgAlreadyCommitted   = "Event already committed, returning prior outcome"
	LogMsgCommitted          = "Allocation run committed"
	LogMsgCommitConflict     = "Commit lost a stock race, run discarded"
	LogMsgCommitRejected     = "Commit rejected, RED run needs confirmation"
	LogMsgAborted            = "Allocation run aborted"
	LogMsgPublishFailed      = "Failed to publish allocation event"
	LogMsgVerifyMismatch     = "Ledger verification failed"
	LogMsgGapsInGrid         = "Grid has cells with no eligible entry"
	LogMsgCeilingNotPositive = "Ceiling is not positive, every selection is over budget"
)

// Error messages
const (
	ErrMsgLoadEvent       = "load event %s: %v"
	ErrMsgLoadCatalog     = "load catalog snapshot: %v"
	ErrMsgLoadLedger      = "read ledger: %v"
	ErrMsgBeginTx         = "begin commit transaction: %v"
	ErrMsgDecrement       = "decrement %s: %v"
	ErrMsgSaveGrid        = "save grid for event %s: %v"
	ErrMsgCommitTx        = "commit transaction: %v"
	ErrMsgNeedsConfirm    = "run %s is RED at usage %s and was not auto-corrected; confirm to commit"
	ErrMsgRunNotFound     = "run %s (expired runs must be previewed again)"
	ErrMsgGridMismatch    = "event %s: persisted grid hash %s, ledger commit hash %s"
	ErrMsgEventIDRequired = "event id is required"
)
