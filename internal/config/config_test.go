package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "GIN_MODE", "LOG_LEVEL", "LOG_FORMAT", "ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE", "COMPRESSION_MIN_BYTES", "SHUTDOWN_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.Equal(t, 600, cfg.RateLimitPerMinute)
	assert.Equal(t, 1024, cfg.CompressionMinBytes)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test ,, http://b.test")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("COMPRESSION_MIN_BYTES", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.Equal(t, 1024, cfg.CompressionMinBytes)
}
