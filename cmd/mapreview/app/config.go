package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/mapreview/internal/config"
)

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.mapreview.yaml or ./.mapreview.yaml)
// 5. Defaults
func LoadConfig() (*config.Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindSecrets()

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mapreview")
	}

	// a missing config file is fine
	_ = viper.ReadInConfig()

	def := config.Default()
	cfg := &config.Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color") || os.Getenv("NO_COLOR") != "",
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		ServerURL:     config.StringOr("server_url", def.ServerURL),
		DetailVariant: config.StringOr("detail_variant", def.DetailVariant),
		ReviewLogFile: config.StringOr("review_log_file", def.ReviewLogFile),

		DataDir:          config.StringOr("data_dir", def.DataDir),
		ChromestatusFile: config.StringOr("chromestatus_file", def.ChromestatusFile),
		WebFeaturesFile:  config.StringOr("web_features_file", def.WebFeaturesFile),
		TentativeFile:    config.StringOr("tentative_file", def.TentativeFile),
		ClassifiedFile:   config.StringOr("classified_file", def.ClassifiedFile),
		ReviewFile:       config.StringOr("review_file", def.ReviewFile),
		ExportFile:       config.StringOr("export_file", def.ExportFile),

		GeminiModel:         config.StringOr("gemini_model", def.GeminiModel),
		GeminiAPIKey:        config.GetString("GEMINI_API_KEY"),
		GoogleCloudProject:  config.GetString("GOOGLE_CLOUD_PROJECT"),
		GoogleCloudLocation: config.StringOr("GOOGLE_CLOUD_LOCATION", def.GoogleCloudLocation),

		GitHubToken: config.GetString("GITHUB_TOKEN"),

		// LOG_LEVEL stays empty when unset so -v and -q can apply
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", def.LogFormat),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", def.LogOutput),
	}

	return cfg, nil
}

// updateFromFlags applies parsed command flags. Flag values take
// precedence over the config file and environment.
func updateFromFlags(c *config.Config, verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides a variable that is already set, so .env.local is read first.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// bindSecrets binds the credential environment variables to Viper so they
// can also come from the config file.
func bindSecrets() {
	for _, key := range []string{
		"GEMINI_API_KEY",
		"GITHUB_TOKEN",
		"GOOGLE_CLOUD_PROJECT",
		"GOOGLE_CLOUD_LOCATION",
	} {
		if err := viper.BindEnv(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
