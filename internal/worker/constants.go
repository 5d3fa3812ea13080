package worker

import "time"

// DefaultJobTimeout bounds a single Process call
const DefaultJobTimeout = 5 * time.Minute

// Log messages
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgJobDropped      = "Worker queue full, job dropped"
)

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
)
