package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is raised when a ledger row names an unknown event
	PgErrorCodeForeignKeyViolation = "23503"
)

// parametersRowID is the key of the single economic_parameters row
const parametersRowID = 1

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Catalog Operations
const (
	ErrMsgFailedToQueryCatalog   = "failed to query catalog entries"
	ErrMsgFailedToScanEntry      = "failed to scan catalog entry"
	ErrMsgFailedToUpsertEntries  = "failed to upsert catalog entries"
	ErrMsgFailedToDecrement      = "failed to decrement quantity"
	ErrMsgFailedToGetSyncMeta    = "failed to get sync metadata"
	ErrMsgFailedToUpsertSyncMeta = "failed to upsert sync metadata"
)

// Error Messages - Parameter Operations
const (
	ErrMsgFailedToGetParameters    = "failed to get economic parameters"
	ErrMsgFailedToSaveParameters   = "failed to save economic parameters"
	ErrMsgFailedToDecodeParameters = "failed to decode economic parameters"
)

// Error Messages - Event Operations
const (
	ErrMsgFailedToGetEvent    = "failed to get event"
	ErrMsgFailedToCreateEvent = "failed to create event"
	ErrMsgEventExists         = "event already exists"
	ErrMsgFailedToGetGrid     = "failed to get event grid"
	ErrMsgFailedToSaveGrid    = "failed to save event grid"
	ErrMsgFailedToDecodeGrid  = "failed to decode event grid"
)

// Error Messages - Ledger Operations
const (
	ErrMsgFailedToQueryLedger  = "failed to query ledger"
	ErrMsgFailedToScanLedger   = "failed to scan ledger entry"
	ErrMsgFailedToAppendLedger = "failed to append ledger entry"
)

// Error Messages - Event Log Operations
const (
	ErrMsgFailedToLogEvent      = "failed to log event"
	ErrMsgFailedToQueryEventLog = "failed to query event log"
	ErrMsgFailedToCleanupEvents = "failed to clean up event log"
	ErrMsgFailedToDecodePayload = "failed to decode event payload"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)
