package config

import "time"

// Defaults
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "prizegrid"
	DefaultVersion     = "dev"

	DefaultDBUser            = "postgres"
	DefaultDBPassword        = "postgres"
	DefaultDBHost            = "localhost"
	DefaultDBPort            = "5432"
	DefaultDBName            = "prizegrid"
	DefaultDBMaxConns        = 10
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultBaselineFraction = "0.95"
	DefaultRunCacheSize     = 1024
	DefaultRunTTL           = 30 * time.Minute
	DefaultRateLimitRPS     = 10.0
	DefaultRateLimitBurst   = 20
	DefaultCatalogSeedPath  = "configs/catalog.json"

	DefaultLogDir              = "logs"
	DefaultStoreDriver         = StoreDriverPostgres
	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"

	DefaultEventLogRetentionDays   = 30
	DefaultEventLogCleanupInterval = 24 * time.Hour
	DefaultWorkerCount             = 2
	DefaultWorkerQueueSize         = 16
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)
