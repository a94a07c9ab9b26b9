// Package config holds the resolved mapreview settings shared by the CLI
// commands, and the viper lookup helpers used to fill them.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/agentstation/mapreview/pkg/constants"
)

// Config is the application configuration after flags, environment,
// .env files and the config file have been merged.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Review client
	ServerURL     string
	DetailVariant string
	ReviewLogFile string

	// Data files, relative to DataDir unless absolute
	DataDir          string
	ChromestatusFile string
	WebFeaturesFile  string
	TentativeFile    string
	ClassifiedFile   string
	ReviewFile       string
	ExportFile       string

	// Classification
	GeminiModel         string
	GeminiAPIKey        string
	GoogleCloudProject  string
	GoogleCloudLocation string

	// Update
	GitHubToken string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		ServerURL:           constants.DefaultServerURL,
		DetailVariant:       "fragment",
		ReviewLogFile:       "mapreview.log",
		DataDir:             constants.DefaultDataDir,
		ChromestatusFile:    constants.ChromestatusFile,
		WebFeaturesFile:     constants.WebFeaturesFile,
		TentativeFile:       constants.TentativeFile,
		ClassifiedFile:      constants.ClassifiedFile,
		ReviewFile:          constants.ReviewFile,
		ExportFile:          constants.ExportFile,
		GeminiModel:         constants.DefaultGeminiModel,
		GoogleCloudLocation: "us-central1",
		LogFormat:           "auto",
		LogOutput:           "stderr",
	}
}

// Path resolves a data file name against DataDir.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// StringOr returns the configured value for key, or def when it is unset.
func StringOr(key, def string) string {
	if v := GetString(key); v != "" {
		return v
	}
	return def
}
