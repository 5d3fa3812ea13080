package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Allocation Metrics
var (
	RunsPreviewed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRunsPreviewed,
			Help: HelpTextRunsPreviewed,
		},
		[]string{LabelBand},
	)

	RunsCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRunsCommitted,
			Help: HelpTextRunsCommitted,
		},
		[]string{LabelBand, LabelReplayed},
	)

	RunsAborted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRunsAborted,
			Help: HelpTextRunsAborted,
		},
	)

	CommitConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCommitConflicts,
			Help: HelpTextCommitConflicts,
		},
	)

	EligibilityGaps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEligibilityGaps,
			Help: HelpTextEligibilityGaps,
		},
	)

	UnitsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameUnitsIssued,
			Help: HelpTextUnitsIssued,
		},
	)

	PrizeSpend = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePrizeSpend,
			Help: HelpTextPrizeSpend,
		},
	)

	TrimAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTrimAmount,
			Help: HelpTextTrimAmount,
		},
	)

	CommitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameCommitDuration,
			Help:    HelpTextCommitDuration,
			Buckets: CommitLatencyBuckets,
		},
	)

	ParameterUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameParameterUpdates,
			Help: HelpTextParameterUpdates,
		},
	)

	RunCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRunCacheEvictions,
			Help: HelpTextRunCacheEvictions,
		},
	)
)
