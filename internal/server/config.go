package server

import (
	"time"

	"github.com/agentstation/mapreview/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	Host string
	Port int

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// CacheTTL bounds how long a rendered fragment is served from memory.
	CacheTTL time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         constants.DefaultServerHost,
		Port:         constants.DefaultServerPort,
		CORSEnabled:  true,
		CORSOrigins:  []string{},
		CacheTTL:     10 * time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE and WebSocket streams stay open
		IdleTimeout:  120 * time.Second,
	}
}
