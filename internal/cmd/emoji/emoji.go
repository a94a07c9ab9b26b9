// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output.
const (
	// Success represents successful completion of an operation.
	// Used for: written files, finished reviews, fetched catalogs.
	Success = "✓"

	// Error represents failures or missing required configuration.
	// Used for: failed operations, missing API keys.
	Error = "✗"

	// Stop represents graceful shutdowns.
	Stop = "✗"

	// Warning represents non-critical issues.
	// Used for: skipped batches, nothing to export.
	Warning = "!"

	// Pending represents work that is not finished yet.
	// Used for: review queues with undecided records.
	Pending = "…"

	// Info represents informational messages.
	Info = "i"

	// Rocket marks a server coming up.
	Rocket = "🚀"
)
