package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNewConfig verifies the defaults.
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendBufferSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

// TestNewConfigFromEnv verifies environment overrides and the fallback for
// unusable values.
func TestNewConfigFromEnv(t *testing.T) {
	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", ":9000")
		t.Setenv("ALLOWED_ORIGINS", "http://a.test, https://b.test")
		t.Setenv("MAX_MESSAGE_SIZE", "1024")
		t.Setenv("SEND_BUFFER_SIZE", "16")
		t.Setenv("SHUTDOWN_TIMEOUT", "3")

		cfg := NewConfigFromEnv()
		assert.Equal(t, ":9000", cfg.Port)
		assert.Equal(t, []string{"http://a.test", "https://b.test"}, cfg.AllowedOrigins)
		assert.Equal(t, int64(1024), cfg.MaxMessageSize)
		assert.Equal(t, 16, cfg.SendBufferSize)
		assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		t.Setenv("MAX_MESSAGE_SIZE", "-5")
		t.Setenv("SEND_BUFFER_SIZE", "lots")
		t.Setenv("SHUTDOWN_TIMEOUT", "0")

		cfg := NewConfigFromEnv()
		assert.Equal(t, int64(4096), cfg.MaxMessageSize)
		assert.Equal(t, 256, cfg.SendBufferSize)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	})
}

// TestConfigSanitized verifies zero values are replaced and origins copied.
func TestConfigSanitized(t *testing.T) {
	origins := []string{"http://a.test"}
	cfg := Config{AllowedOrigins: origins}.sanitized()

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendBufferSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	cfg.AllowedOrigins[0] = "changed"
	assert.Equal(t, "http://a.test", origins[0])
}
