package config

import (
	"os"
	"path/filepath"
	"testing"

	"webcompat/internal/paths"
)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv(paths.HomeEnvVar, t.TempDir())
	return t.TempDir()
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Check version
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}

	// Check dataset sources
	if cfg.Datasets.BCD.URL != DefaultBCDURL {
		t.Errorf("BCD URL = %q, want %q", cfg.Datasets.BCD.URL, DefaultBCDURL)
	}
	if cfg.Datasets.WebFeatures.URL != DefaultWebFeaturesURL {
		t.Errorf("WebFeatures URL = %q, want %q", cfg.Datasets.WebFeatures.URL, DefaultWebFeaturesURL)
	}

	// Check query defaults
	if cfg.Query.DefaultLimit != 20 {
		t.Errorf("DefaultLimit = %d, want 20", cfg.Query.DefaultLimit)
	}
	if cfg.Query.MaxLimit != 100 {
		t.Errorf("MaxLimit = %d, want 100", cfg.Query.MaxLimit)
	}
	if len(cfg.Query.DefaultBrowsers) != 4 {
		t.Errorf("DefaultBrowsers = %v, want 4 desktop browsers", cfg.Query.DefaultBrowsers)
	}

	// Check output
	if cfg.Output.CharacterLimit != 25000 {
		t.Errorf("CharacterLimit = %d, want 25000", cfg.Output.CharacterLimit)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Source() != "" {
		t.Errorf("Source() = %q, want empty", cfg.Source())
	}
	if cfg.Query.DefaultLimit != 20 {
		t.Errorf("DefaultLimit = %d, want 20", cfg.Query.DefaultLimit)
	}
	if cfg.Datasets.BCD.URL != DefaultBCDURL {
		t.Errorf("BCD URL = %q, want default", cfg.Datasets.BCD.URL)
	}
}

func TestLoadConfigFromJSON(t *testing.T) {
	dir := isolate(t)
	configDir := filepath.Join(dir, paths.ProjectDir)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}

	content := `{
		"version": 1,
		"datasets": {"bcd": {"path": "/data/bcd.json"}},
		"query": {"defaultLimit": 50, "defaultBrowsers": ["chrome", "firefox"]}
	}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Datasets.BCD.Path != "/data/bcd.json" {
		t.Errorf("BCD Path = %q, want /data/bcd.json", cfg.Datasets.BCD.Path)
	}
	if cfg.Query.DefaultLimit != 50 {
		t.Errorf("DefaultLimit = %d, want 50", cfg.Query.DefaultLimit)
	}
	if len(cfg.Query.DefaultBrowsers) != 2 {
		t.Errorf("DefaultBrowsers = %v, want [chrome firefox]", cfg.Query.DefaultBrowsers)
	}
	// untouched keys keep their defaults
	if cfg.Output.CharacterLimit != 25000 {
		t.Errorf("CharacterLimit = %d, want 25000", cfg.Output.CharacterLimit)
	}
	if cfg.Source() == "" {
		t.Error("Source() should name the config file")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := isolate(t)
	t.Setenv("WEBCOMPAT_DATASETS_BCD_PATH", "/env/bcd.json")
	t.Setenv("WEBCOMPAT_OUTPUT_CHARACTERLIMIT", "5000")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Datasets.BCD.Path != "/env/bcd.json" {
		t.Errorf("BCD Path = %q, want /env/bcd.json", cfg.Datasets.BCD.Path)
	}
	if cfg.Output.CharacterLimit != 5000 {
		t.Errorf("CharacterLimit = %d, want 5000", cfg.Output.CharacterLimit)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.Datasets.WebFeatures.Path = "/tmp/web-features.json"
	cfg.Query.DefaultLimit = 10

	path, err := cfg.Save(dir)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Save wrote %s, want config.toml", path)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Datasets.WebFeatures.Path != "/tmp/web-features.json" {
		t.Errorf("WebFeatures Path = %q, want /tmp/web-features.json", loaded.Datasets.WebFeatures.Path)
	}
	if loaded.Query.DefaultLimit != 10 {
		t.Errorf("DefaultLimit = %d, want 10", loaded.Query.DefaultLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"bad version", func(c *Config) { c.Version = 99 }, "version"},
		{"no bcd source", func(c *Config) { c.Datasets.BCD = SourceConfig{} }, "datasets.bcd"},
		{"no web-features source", func(c *Config) { c.Datasets.WebFeatures = SourceConfig{} }, "datasets.webFeatures"},
		{"zero timeout", func(c *Config) { c.Datasets.FetchTimeoutSeconds = 0 }, "datasets.fetchTimeoutSeconds"},
		{"limit above max", func(c *Config) { c.Query.DefaultLimit = 500 }, "query.defaultLimit"},
		{"no browsers", func(c *Config) { c.Query.DefaultBrowsers = nil }, "query.defaultBrowsers"},
		{"tiny character limit", func(c *Config) { c.Output.CharacterLimit = 10 }, "output.characterLimit"},
		{"unknown format", func(c *Config) { c.Output.DefaultFormat = "xml" }, "output.defaultFormat"},
		{"negative retention", func(c *Config) { c.Metrics.RetentionDays = -1 }, "metrics.retentionDays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}
