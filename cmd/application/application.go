// Package application provides the application interface for mapreview commands.
//
// Commands accept an Application rather than the concrete app type, so they
// can be exercised in tests with a Mock:
//
//	mock := &application.Mock{
//	    ConfigFunc: func() *config.Config {
//	        cfg := config.Default()
//	        cfg.DataDir = t.TempDir()
//	        return cfg
//	    },
//	}
//	cmd := export.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/mapreview/internal/config"
)

// Application provides what commands need from the running app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Config returns the resolved configuration.
	Config() *config.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
