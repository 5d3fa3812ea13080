package audit

// Canonical grid serialization
const (
	gapToken      = "-"
	cellSeparator = ","
	rankSeparator = ";"
	seedSeparator = "|"
)

// Log messages
const (
	LogMsgLedgerAppended     = "Ledger entry appended"
	LogMsgLedgerAppendFailed = "Ledger append failed"
	LogMsgHashMismatch       = "Commit hash does not match preview"
)

// Error messages
const (
	ErrMsgAppendFailed    = "append ledger entry"
	ErrMsgPreviewMismatch = "grid changed since preview: preview %s, commit %s"
	ErrMsgStoredMismatch  = "ledger %s: stored %s hash %s, recomputed %s"
	ErrMsgCostMismatch    = "ledger %s: stored pre-correction cost %s, recomputed %s"
)
