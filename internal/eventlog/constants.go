package eventlog

// Query limits for ListEvents
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Log messages - service events
const (
	LogMsgEventLogged      = "Event logged to database"
	LogMsgFailedToLogEvent = "Failed to log event to database"
	LogMsgPayloadNotObject = "Event payload is not an object, skipping log"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting event log cleanup job"
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
)

// Log field keys - structured logging fields
const (
	LogFieldType          = "type"
	LogFieldRunID         = "run_id"
	LogFieldError         = "error"
	LogFieldRetentionDays = "retentionDays"
	LogFieldDuration      = "duration"
	LogFieldDeletedCount  = "deletedCount"
)
