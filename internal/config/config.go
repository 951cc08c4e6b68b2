// Package config handles Attention Lens configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	MinTopK = 1
	MaxTopK = 20
)

// Config is the root configuration structure.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Views   ViewsConfig   `yaml:"views"`
	Log     LogConfig     `yaml:"log"`
	Export  ExportConfig  `yaml:"export"`
}

// ServiceConfig points at the analysis service.
type ServiceConfig struct {
	URL string `yaml:"url"`
}

// ViewsConfig holds initial view parameters.
type ViewsConfig struct {
	InitialText     string   `yaml:"initial_text"`
	TopK            int      `yaml:"top_k"`
	AnalogyTopK     int      `yaml:"analogy_top_k"`
	AnalogyPositive []string `yaml:"analogy_positive"`
	AnalogyNegative []string `yaml:"analogy_negative"`
}

// LogConfig controls the structured log file. The terminal belongs to the
// UI, so logs only ever go to a file.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// ExportConfig controls chart exports.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// envOverrides are read from the environment after the file is loaded.
// Zero values mean "not set".
type envOverrides struct {
	URL       string `envconfig:"ATTENTION_LENS_URL"`
	TopK      int    `envconfig:"ATTENTION_LENS_TOP_K"`
	LogFile   string `envconfig:"ATTENTION_LENS_LOG_FILE"`
	LogLevel  string `envconfig:"ATTENTION_LENS_LOG_LEVEL"`
	ExportDir string `envconfig:"ATTENTION_LENS_EXPORT_DIR"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			URL: "http://localhost:4000",
		},
		Views: ViewsConfig{
			InitialText:     "The cat sat on the",
			TopK:            5,
			AnalogyTopK:     5,
			AnalogyPositive: []string{"king", "woman"},
			AnalogyNegative: []string{"man"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Dir: "./exports",
		},
	}
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// ApplyEnv overlays environment overrides onto c.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if env.URL != "" {
		c.Service.URL = env.URL
	}
	if env.TopK != 0 {
		c.Views.TopK = env.TopK
	}
	if env.LogFile != "" {
		c.Log.File = env.LogFile
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.ExportDir != "" {
		c.Export.Dir = env.ExportDir
	}
	return nil
}

// Validate checks the values the dashboard depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Service.URL) == "" {
		return fmt.Errorf("service.url must not be empty")
	}
	if c.Views.TopK < MinTopK || c.Views.TopK > MaxTopK {
		return fmt.Errorf("views.top_k must be between %d and %d, got %d", MinTopK, MaxTopK, c.Views.TopK)
	}
	if c.Views.AnalogyTopK < MinTopK || c.Views.AnalogyTopK > MaxTopK {
		return fmt.Errorf("views.analogy_top_k must be between %d and %d, got %d", MinTopK, MaxTopK, c.Views.AnalogyTopK)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if _, err := os.Stat("attention-lens.yaml"); err == nil {
		return "attention-lens.yaml"
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "attention-lens.yaml"
	}
	return filepath.Join(homeDir, ".attention-lens", "config.yaml")
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return Default().Save(path)
}
