// Package server provides configuration helpers that define runtime defaults
// and validation for the relay service.
package server

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server configuration settings including security controls.
type Config struct {
	Port            string
	AllowedOrigins  []string
	MaxMessageSize  int64
	SendBufferSize  int
	ShutdownTimeout time.Duration
}

const (
	defaultPort            = ":8080"
	defaultMaxMessageSize  = 4096
	defaultSendBufferSize  = 256
	defaultShutdownTimeout = 10 * time.Second
)

func defaultConfig() Config {
	return Config{
		Port: defaultPort,
		AllowedOrigins: []string{
			"http://localhost:8080",
		},
		MaxMessageSize:  defaultMaxMessageSize,
		SendBufferSize:  defaultSendBufferSize,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// sanitized returns a copy with every unset or invalid value replaced by its
// default.
func (c Config) sanitized() Config {
	if c.Port == "" {
		c.Port = defaultPort
	}

	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = defaultMaxMessageSize
	}

	if c.SendBufferSize <= 0 {
		c.SendBufferSize = defaultSendBufferSize
	}

	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}

	c.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	return c
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// NewConfigFromEnv creates a Config instance from environment variables.
// Falls back to default values if environment variables are not set.
func NewConfigFromEnv() *Config {
	cfg := defaultConfig()

	// Load SERVER_PORT
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}

	// Load ALLOWED_ORIGINS
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	// Load MAX_MESSAGE_SIZE
	if maxSize := os.Getenv("MAX_MESSAGE_SIZE"); maxSize != "" {
		cfg.MaxMessageSize = parseMaxMessageSize(maxSize, cfg.MaxMessageSize)
	}

	// Load SEND_BUFFER_SIZE
	if size := os.Getenv("SEND_BUFFER_SIZE"); size != "" {
		cfg.SendBufferSize = parseIntValue(size, cfg.SendBufferSize)
	}

	// Load SHUTDOWN_TIMEOUT
	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		cfg.ShutdownTimeout = parseSeconds(timeout, cfg.ShutdownTimeout)
	}

	return &cfg
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseMaxMessageSize(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size > 0 {
		return size
	}
	return defaultValue
}

func parseIntValue(value string, defaultValue int) int {
	if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
		return parsed
	}
	return defaultValue
}

func parseSeconds(value string, defaultValue time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
