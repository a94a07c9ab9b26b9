// Package constants provides shared constants used throughout mapreview:
// timeouts, file permissions, default file names and endpoint paths.
package constants

import "time"

// Timeouts.
const (
	// DefaultHTTPTimeout is the standard timeout for outbound HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// SaveTimeout bounds a single fire-and-forget save request.
	SaveTimeout = 15 * time.Second

	// ShutdownTimeout is how long graceful shutdown waits for in-flight work.
	ShutdownTimeout = 5 * time.Second

	// ClassifyTimeout bounds one LLM classification batch.
	ClassifyTimeout = 10 * time.Minute
)

// File permissions.
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x).
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--).
	FilePermissions = 0644
)

// Default data file names, relative to the data directory.
const (
	ChromestatusFile  = "chromestatus.json"
	WebFeaturesFile   = "web-features.json"
	TentativeFile     = "mapping-tentative.json"
	ClassifiedFile    = "mapping.json"
	ReviewFile        = "mapping-review.json"
	ExportFile        = "mapping-export.csv"
	WebFeaturesSource = "data.extended.json"
)

// Backend endpoint paths.
const (
	QueuePath          = "/api/queue"
	SavePath           = "/api/save"
	StatsPath          = "/api/stats"
	APIPrefix          = "/api"
	FragmentPrefix     = "/fragment"
	UpdatesStreamPath  = "/api/updates/stream"
	UpdatesSocketPath  = "/api/updates/ws"
	DefaultServerURL   = "http://localhost:5001"
	DefaultServerPort  = 5001
	DefaultServerHost  = "localhost"
	DefaultDataDir     = "."
	DefaultGeminiModel = "gemini-2.5-pro"
)

// Batch and cache sizes.
const (
	// ChromestatusPageSize is the page size used against the chromestatus features API.
	ChromestatusPageSize = 500

	// ClassifyBatchSize is the number of entries sent to the model per prompt.
	ClassifyBatchSize = 250

	// DetailCacheSize is the number of detail responses memoised by the backend client.
	DetailCacheSize = 512

	// DetailCacheTTL is how long a memoised detail response stays valid.
	DetailCacheTTL = 10 * time.Minute
)
