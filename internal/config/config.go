package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"webcompat/internal/paths"
)

// CurrentVersion is the config schema version.
const CurrentVersion = 1

// EnvPrefix prefixes environment overrides, e.g. WEBCOMPAT_DATASETS_BCD_PATH.
const EnvPrefix = "WEBCOMPAT"

// Default dataset locations: the published npm packages served by unpkg.
const (
	DefaultBCDURL         = "https://unpkg.com/@mdn/browser-compat-data/data.json"
	DefaultWebFeaturesURL = "https://unpkg.com/web-features/data.json"
)

// Config represents the complete webcompat configuration
type Config struct {
	Version int `json:"version" mapstructure:"version" toml:"version"`

	Datasets DatasetsConfig `json:"datasets" mapstructure:"datasets" toml:"datasets"`
	Query    QueryConfig    `json:"query" mapstructure:"query" toml:"query"`
	Output   OutputConfig   `json:"output" mapstructure:"output" toml:"output"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging" toml:"logging"`
	Metrics  MetricsConfig  `json:"metrics" mapstructure:"metrics" toml:"metrics"`

	source string
}

// DatasetsConfig locates the two datasets
type DatasetsConfig struct {
	BCD                 SourceConfig `json:"bcd" mapstructure:"bcd" toml:"bcd"`
	WebFeatures         SourceConfig `json:"webFeatures" mapstructure:"webFeatures" toml:"webFeatures"`
	CacheDir            string       `json:"cacheDir" mapstructure:"cacheDir" toml:"cacheDir"`
	FetchTimeoutSeconds int          `json:"fetchTimeoutSeconds" mapstructure:"fetchTimeoutSeconds" toml:"fetchTimeoutSeconds"`
}

// SourceConfig is a local path or a URL. A path wins when both are set.
type SourceConfig struct {
	Path string `json:"path" mapstructure:"path" toml:"path"`
	URL  string `json:"url" mapstructure:"url" toml:"url"`
}

// QueryConfig contains query defaults
type QueryConfig struct {
	DefaultLimit    int      `json:"defaultLimit" mapstructure:"defaultLimit" toml:"defaultLimit"`
	MaxLimit        int      `json:"maxLimit" mapstructure:"maxLimit" toml:"maxLimit"`
	DefaultBrowsers []string `json:"defaultBrowsers" mapstructure:"defaultBrowsers" toml:"defaultBrowsers"`
}

// OutputConfig contains response rendering settings
type OutputConfig struct {
	CharacterLimit int    `json:"characterLimit" mapstructure:"characterLimit" toml:"characterLimit"`
	DefaultFormat  string `json:"defaultFormat" mapstructure:"defaultFormat" toml:"defaultFormat"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format     string `json:"format" mapstructure:"format" toml:"format"`
	Level      string `json:"level" mapstructure:"level" toml:"level"`
	File       string `json:"file" mapstructure:"file" toml:"file"`
	MaxSizeMB  int    `json:"maxSizeMB" mapstructure:"maxSizeMB" toml:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups" toml:"maxBackups"`
}

// MetricsConfig controls tool-call metrics persistence
type MetricsConfig struct {
	Enabled       bool `json:"enabled" mapstructure:"enabled" toml:"enabled"`
	RetentionDays int  `json:"retentionDays" mapstructure:"retentionDays" toml:"retentionDays"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Datasets: DatasetsConfig{
			BCD:                 SourceConfig{URL: DefaultBCDURL},
			WebFeatures:         SourceConfig{URL: DefaultWebFeaturesURL},
			FetchTimeoutSeconds: 60,
		},
		Query: QueryConfig{
			DefaultLimit:    20,
			MaxLimit:        100,
			DefaultBrowsers: []string{"chrome", "edge", "firefox", "safari"},
		},
		Output: OutputConfig{
			CharacterLimit: 25000,
			DefaultFormat:  "markdown",
		},
		Logging: LoggingConfig{
			Format:     "human",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Metrics: MetricsConfig{
			Enabled:       true,
			RetentionDays: 30,
		},
	}
}

// setDefaults registers every key with viper so that environment overrides
// apply even without a config file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("datasets.bcd.path", d.Datasets.BCD.Path)
	v.SetDefault("datasets.bcd.url", d.Datasets.BCD.URL)
	v.SetDefault("datasets.webFeatures.path", d.Datasets.WebFeatures.Path)
	v.SetDefault("datasets.webFeatures.url", d.Datasets.WebFeatures.URL)
	v.SetDefault("datasets.cacheDir", d.Datasets.CacheDir)
	v.SetDefault("datasets.fetchTimeoutSeconds", d.Datasets.FetchTimeoutSeconds)
	v.SetDefault("query.defaultLimit", d.Query.DefaultLimit)
	v.SetDefault("query.maxLimit", d.Query.MaxLimit)
	v.SetDefault("query.defaultBrowsers", d.Query.DefaultBrowsers)
	v.SetDefault("output.characterLimit", d.Output.CharacterLimit)
	v.SetDefault("output.defaultFormat", d.Output.DefaultFormat)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSizeMB", d.Logging.MaxSizeMB)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.retentionDays", d.Metrics.RetentionDays)
}

// LoadConfig loads configuration from <workDir>/.webcompat/config.{json,toml,yaml},
// falling back to the webcompat home directory. Environment variables
// prefixed with WEBCOMPAT_ override file values.
func LoadConfig(workDir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(workDir, paths.ProjectDir))
	if home, err := paths.GetHome(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.source = v.ConfigFileUsed()

	return &cfg, nil
}

// Source returns the config file that was read, or "" when defaults were used.
func (c *Config) Source() string {
	return c.source
}

// Save writes the configuration to <workDir>/.webcompat/config.toml
func (c *Config) Save(workDir string) (string, error) {
	dir := filepath.Join(workDir, paths.ProjectDir)
	if err := paths.EnsureDir(dir); err != nil {
		return "", err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return "", err
	}
	return configPath, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Datasets.BCD.Path == "" && c.Datasets.BCD.URL == "" {
		return &ConfigError{Field: "datasets.bcd", Message: "either path or url is required"}
	}
	if c.Datasets.WebFeatures.Path == "" && c.Datasets.WebFeatures.URL == "" {
		return &ConfigError{Field: "datasets.webFeatures", Message: "either path or url is required"}
	}
	if c.Datasets.FetchTimeoutSeconds <= 0 {
		return &ConfigError{Field: "datasets.fetchTimeoutSeconds", Message: "must be positive"}
	}
	if c.Query.MaxLimit < 1 {
		return &ConfigError{Field: "query.maxLimit", Message: "must be at least 1"}
	}
	if c.Query.DefaultLimit < 1 || c.Query.DefaultLimit > c.Query.MaxLimit {
		return &ConfigError{Field: "query.defaultLimit", Message: fmt.Sprintf("must be between 1 and %d", c.Query.MaxLimit)}
	}
	if len(c.Query.DefaultBrowsers) == 0 {
		return &ConfigError{Field: "query.defaultBrowsers", Message: "at least one browser is required"}
	}
	if c.Output.CharacterLimit < 1000 {
		return &ConfigError{Field: "output.characterLimit", Message: "must be at least 1000"}
	}
	switch c.Output.DefaultFormat {
	case "markdown", "json":
	default:
		return &ConfigError{Field: "output.defaultFormat", Message: "must be markdown or json"}
	}
	if c.Metrics.RetentionDays < 0 {
		return &ConfigError{Field: "metrics.retentionDays", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
