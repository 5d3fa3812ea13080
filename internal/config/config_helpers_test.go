package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsInt(t *testing.T) {
	t.Run("returns default value when env var not set", func(t *testing.T) {
		os.Unsetenv("TEST_INT_VAR")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("parses valid integer from env var", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "100")
		assert.Equal(t, 100, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("returns default for invalid integer", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "not-a-number")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42), "Should return default for invalid integer")
	})
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Run("parses duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "15m")
		assert.Equal(t, 15*time.Minute, getEnvAsDuration("TEST_DURATION_VAR", time.Second))
	})

	t.Run("returns default for invalid duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "soon")
		assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION_VAR", time.Second))
	})
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT_VAR", "0.25")
	assert.InDelta(t, 0.25, getEnvAsFloat("TEST_FLOAT_VAR", 1), 1e-9)

	t.Setenv("TEST_FLOAT_VAR", "x")
	assert.InDelta(t, 1.0, getEnvAsFloat("TEST_FLOAT_VAR", 1), 1e-9)
}
