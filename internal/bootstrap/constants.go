package bootstrap

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files kept before a new session file is created
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting prizegrid"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Catalog Sync Messages
// =============================================================================

const (
	LogMsgSyncingCatalog   = "Syncing catalog from JSON seed..."
	LogMsgCatalogSynced    = "Catalog synced successfully"
	LogMsgCatalogUnchanged = "Catalog seed unchanged, sync skipped"

	ErrMsgFailedCreateLoader = "failed to create catalog loader"
	ErrMsgFailedLoadCatalog  = "failed to load catalog seed"
	ErrMsgInvalidCatalog     = "invalid catalog seed"
	ErrMsgFailedSyncCatalog  = "failed to sync catalog to store"
)

// =============================================================================
// Repository Initialization
// =============================================================================

const (
	LogMsgUsingPostgresStore = "Using postgres store"
	LogMsgUsingMemoryStore   = "Using in-memory store; data is lost on exit"
	ErrMsgPoolRequired       = "postgres store requires a database pool"
	ErrMsgUnknownStoreDriver = "unknown store driver"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	LogMsgEventReceived              = "Allocation event"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Event Log
// =============================================================================

const (
	LogMsgEventLogCleanupScheduled = "Event log cleanup scheduled"
	LogMsgEventLogKeptForever      = "Event log retention disabled, entries are never cleaned up"
	ErrMsgFailedSubscribeEventLog  = "failed to subscribe event log"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgStoppingBackgroundJobs     = "Stopping background jobs..."
)
