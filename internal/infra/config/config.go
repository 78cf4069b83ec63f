// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Admin    AdminConfig    `yaml:"admin"`
	Speech   SpeechConfig   `yaml:"speech"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	History  HistoryConfig  `yaml:"history"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// AdminConfig represents admin-related configuration.
type AdminConfig struct {
	Token string `yaml:"token" validate:"required"`
}

// SpeechConfig represents narration configuration.
type SpeechConfig struct {
	Provider            string  `yaml:"provider" default:"estimate" validate:"oneof=openai estimate none"`
	Lang                string  `yaml:"lang" default:"en-US"`
	Rate                float64 `yaml:"rate" default:"0.9" validate:"gt=0,lte=4"`
	WordsPerMinute      int     `yaml:"words_per_minute" default:"150" validate:"gt=0"`
	Model               string  `yaml:"model"`
	Voice               string  `yaml:"voice"`
	APIKey              string  `yaml:"api_key"`
	BaseURL             string  `yaml:"base_url" validate:"omitempty,url"`
	SynthesisTimeoutSec int     `yaml:"synthesis_timeout_sec" default:"120" validate:"gt=0"`
	AudioRetention      int     `yaml:"audio_retention" default:"8" validate:"gt=0"`
}

// DatabaseConfig represents persistence configuration.
type DatabaseConfig struct {
	Driver string `yaml:"driver" default:"sqlite" validate:"oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" default:"readaloud.db" validate:"required"`
}

// CatalogConfig represents article catalog configuration.
type CatalogConfig struct {
	PageSize int                     `yaml:"page_size" default:"20" validate:"gt=0,lte=500"`
	Sources  []SourceConfig          `yaml:"sources" validate:"required,min=1,dive"`
	Filters  map[string]FilterConfig `yaml:"filters"`
}

// SourceConfig represents a single catalog source configuration.
type SourceConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name"`
	Settings    map[string]any `yaml:"settings"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// HistoryConfig represents listening history configuration.
type HistoryConfig struct {
	Timezone string `yaml:"timezone" default:"Local"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Speech.APIKey = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
		if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
			c.Database.Driver = "postgres"
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Speech.Provider == "openai" && c.Speech.APIKey == "" {
		return errors.New("speech.api_key is required for the openai provider")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location returns the time zone used to group listening records by day.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.History.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid history.timezone %q", c.History.Timezone)
	}
	return loc, nil
}

// SynthesisTimeout returns the per-utterance synthesis timeout.
func (c *Config) SynthesisTimeout() time.Duration {
	return time.Duration(c.Speech.SynthesisTimeoutSec) * time.Second
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Catalog.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}
