// Package config handles configuration loading for handcuffs.
// It supports XDG config paths and environment variables; flags on the
// watch command take precedence over everything here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Provider names accepted by the --model flag and config file.
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Config holds all configuration for handcuffs.
type Config struct {
	// Task is the work the user should be doing. Required; usually set
	// via the --task flag rather than the config file.
	Task string `mapstructure:"task" yaml:"task"`
	// Interval is the time between screen checks.
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	// Provider selects the vision model: "claude" or "gemini".
	Provider string `mapstructure:"provider" yaml:"provider"`
	// Verbose enables timestamped debug lines on stdout.
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	Anthropic AnthropicConfig `mapstructure:"anthropic" yaml:"anthropic"`
	Gemini    GeminiConfig    `mapstructure:"gemini" yaml:"gemini"`
	History   HistoryConfig   `mapstructure:"history" yaml:"history"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
	// UseBedrock routes calls through AWS Bedrock instead of the
	// direct API.
	UseBedrock bool   `mapstructure:"use_bedrock" yaml:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region" yaml:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile" yaml:"aws_profile"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
}

// HistoryConfig holds activity log settings.
type HistoryConfig struct {
	// Enabled records checks and episodes to the SQLite log.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Path overrides the default database location.
	Path string `mapstructure:"path" yaml:"path"`
}

// Validate checks fields that have a closed set of values.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderClaude, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q (want %q or %q)", c.Provider, ProviderClaude, ProviderGemini)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	return nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Interval: 60 * time.Second,
		Provider: ProviderGemini,
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Load loads configuration from the user config file and environment.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, GOOGLE_API_KEY, HANDCUFFS_*)
// 2. User config (~/.config/handcuffs/config.yaml)
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(UserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("HANDCUFFS")
	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("gemini.api_key", "GOOGLE_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in credentials.
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	cfg.Gemini.APIKey = os.ExpandEnv(cfg.Gemini.APIKey)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("interval", def.Interval)
	v.SetDefault("provider", def.Provider)
	v.SetDefault("verbose", false)
	v.SetDefault("history.enabled", def.History.Enabled)
}

// UserConfigDir returns the XDG config directory for handcuffs.
func UserConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "handcuffs")
}

// UserConfigPath returns the path of the user config file.
func UserConfigPath() string {
	return filepath.Join(UserConfigDir(), "config.yaml")
}

// WriteDefault writes a default config file to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Render returns the config as YAML for `handcuffs config show`.
// Credentials are redacted.
func (c *Config) Render() (string, error) {
	clone := *c
	if clone.Anthropic.APIKey != "" {
		clone.Anthropic.APIKey = "(set)"
	}
	if clone.Gemini.APIKey != "" {
		clone.Gemini.APIKey = "(set)"
	}

	data, err := yaml.Marshal(&clone)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}
