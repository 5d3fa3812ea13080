package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"PORT", "API_KEY", "LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "SERVICE_NAME", "VERSION",
	"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
	"DB_MAX_CONNS", "DB_MAX_CONN_IDLE_TIME", "DB_MAX_CONN_LIFETIME",
	"BASELINE_FRACTION", "RUN_CACHE_SIZE", "RUN_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"CATALOG_SEED_PATH", "LOG_DIR", "TRUSTED_PROXIES", "STORE_DRIVER",
	"EVENT_MAX_RETRIES", "EVENT_RETRY_DELAY", "EVENT_DEADLETTER_PATH",
	"EVENT_LOG_RETENTION_DAYS", "EVENT_LOG_CLEANUP_INTERVAL", "WORKER_COUNT",
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if prev, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads config with defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port, "Should use default port")
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, "postgres", cfg.DBUser)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "test-key", cfg.APIKey)
		assert.True(t, cfg.BaselineFraction.Equal(decimal.RequireFromString("0.95")))
		assert.Equal(t, DefaultRunCacheSize, cfg.RunCacheSize)
		assert.Equal(t, DefaultRunTTL, cfg.RunTTL)
		assert.Equal(t, DefaultEventLogRetentionDays, cfg.EventLogRetentionDays)
		assert.Equal(t, DefaultEventLogCleanupInterval, cfg.EventLogCleanupInterval)
		assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
		assert.Empty(t, cfg.TrustedProxies)
		assert.Equal(t, DefaultEventMaxRetries, cfg.EventMaxRetries)
		assert.Equal(t, DefaultRateLimitBurst, cfg.RateLimitBurst)
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PORT", "3000")
		t.Setenv("API_KEY", "custom-api-key")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("DB_HOST", "db.example.com")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("BASELINE_FRACTION", "0.8")
		t.Setenv("RUN_CACHE_SIZE", "16")
		t.Setenv("RUN_TTL", "90s")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "db.example.com", cfg.DBHost)
		assert.True(t, cfg.BaselineFraction.Equal(decimal.RequireFromString("0.8")))
		assert.Equal(t, 16, cfg.RunCacheSize)
		assert.Equal(t, 90*time.Second, cfg.RunTTL)
		assert.InDelta(t, 2.5, cfg.RateLimitRPS, 1e-9)
	})

	t.Run("fails without API key", func(t *testing.T) {
		clearEnvVars(t)

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API_KEY")
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("PORT", "eighty")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid PORT value")
	})

	t.Run("rejects baseline outside (0,1]", func(t *testing.T) {
		for _, v := range []string{"0", "1.01", "-0.5", "abc"} {
			clearEnvVars(t)
			t.Setenv("API_KEY", "k")
			t.Setenv("BASELINE_FRACTION", v)

			_, err := Load()

			assert.Error(t, err, "baseline %q", v)
		}
	})
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.GetDBConnString())
}

func TestLoad_EventAndProxySettings(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("API_KEY", "test-key")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,127.0.0.1 ")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("EVENT_MAX_RETRIES", "2")
	t.Setenv("EVENT_RETRY_DELAY", "250ms")
	t.Setenv("EVENT_DEADLETTER_PATH", "/tmp/dl.jsonl")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "127.0.0.1"}, cfg.TrustedProxies)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 2, cfg.EventMaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.EventRetryDelay)
	assert.Equal(t, "/tmp/dl.jsonl", cfg.EventDeadLetterPath)
}

func TestLoad_RejectsUnknownStoreDriver(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("API_KEY", "test-key")
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestLoadDatabase_DoesNotNeedAPIKey(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("DB_NAME", "grid_test")
	t.Setenv("DB_HOST", "db")

	cfg := LoadDatabase()

	assert.Equal(t, "grid_test", cfg.DBName)
	assert.Equal(t, "postgres://postgres:postgres@db:5432/grid_test?sslmode=disable", cfg.GetDBConnString())
	assert.Equal(t, "postgres://postgres:postgres@db:5432/postgres?sslmode=disable", cfg.GetServerConnString())
	assert.Equal(t, DefaultCatalogSeedPath, cfg.CatalogSeedPath)
}

func TestLoad_EventLogRetention(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("API_KEY", "k")
	t.Setenv("EVENT_LOG_RETENTION_DAYS", "7")
	t.Setenv("EVENT_LOG_CLEANUP_INTERVAL", "1h")
	t.Setenv("WORKER_COUNT", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.EventLogRetentionDays)
	assert.Equal(t, time.Hour, cfg.EventLogCleanupInterval)
	assert.Equal(t, 4, cfg.WorkerCount)

	t.Setenv("EVENT_LOG_RETENTION_DAYS", "-1")
	_, err = Load()
	assert.Error(t, err)
}
