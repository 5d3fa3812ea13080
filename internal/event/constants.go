package event

// EventSchemaVersion is stamped on every event built by the constructors.
const EventSchemaVersion = "1.0"

// Allocation lifecycle event types
const (
	RunPreviewed      Type = "allocation.previewed"
	RunCommitted      Type = "allocation.committed"
	RunAborted        Type = "allocation.aborted"
	RunConflicted     Type = "allocation.conflicted"
	ParametersUpdated Type = "parameters.updated"
)

// Metadata keys
const (
	MetadataKeyRunID   = "run_id"
	MetadataKeyEventID = "event_id"
	MetadataKeySource  = "source"
)

// Retry configuration
const (
	DefaultMaxRetries = 3

	// DeadLetterFilePermissions is the file mode for dead-letter files
	DeadLetterFilePermissions = 0644
)

// Log messages
const (
	LogMsgPublishFailed      = "Event publish failed, retrying in background"
	LogMsgRetrySucceeded     = "Event published after retry"
	LogMsgRetryFailed        = "Event retry failed"
	LogMsgDeadLettered       = "Event written to dead letter"
	LogMsgDeadLetterFailed   = "Failed to write event to dead letter"
	LogMsgShutdownTimeout    = "Resilient publisher shutdown timed out"
	LogMsgDroppedShutdown    = "Event dropped during shutdown"
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)
