package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Allocation metric names
const (
	MetricNameRunsPreviewed     = "allocation_runs_previewed_total"
	MetricNameRunsCommitted     = "allocation_runs_committed_total"
	MetricNameRunsAborted       = "allocation_runs_aborted_total"
	MetricNameCommitConflicts   = "allocation_commit_conflicts_total"
	MetricNameEligibilityGaps   = "allocation_eligibility_gaps_total"
	MetricNameUnitsIssued       = "allocation_units_issued_total"
	MetricNamePrizeSpend        = "allocation_prize_spend_total"
	MetricNameTrimAmount        = "allocation_trim_amount_total"
	MetricNameCommitDuration    = "allocation_commit_duration_seconds"
	MetricNameParameterUpdates  = "parameter_updates_total"
	MetricNameRunCacheEvictions = "allocation_run_cache_evictions_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Allocation metric help text
const (
	HelpTextRunsPreviewed     = "Allocation runs previewed, by band after correction"
	HelpTextRunsCommitted     = "Allocation runs committed, by band and whether the commit was replayed"
	HelpTextRunsAborted       = "Allocation runs aborted"
	HelpTextCommitConflicts   = "Commits rejected because catalog stock changed underneath them"
	HelpTextEligibilityGaps   = "Grid cells left empty because no entry was eligible"
	HelpTextUnitsIssued       = "Catalog units decremented by committed runs"
	HelpTextPrizeSpend        = "Final prize cost of committed runs"
	HelpTextTrimAmount        = "Amount removed from reported cost by auto-trim"
	HelpTextCommitDuration    = "Commit transaction latency in seconds"
	HelpTextParameterUpdates  = "Economic parameter updates saved"
	HelpTextRunCacheEvictions = "Previewed runs evicted from the run cache before commit or abort"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelBand     = "band"
	LabelReplayed = "replayed"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets ranges from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// CommitLatencyBuckets ranges from 1ms to 5s
var CommitLatencyBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 5}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
