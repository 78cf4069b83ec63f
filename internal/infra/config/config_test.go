package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Admin: AdminConfig{Token: "test-admin-token"},
		Speech: SpeechConfig{
			Provider:            "estimate",
			Lang:                "en-US",
			Rate:                0.9,
			WordsPerMinute:      150,
			SynthesisTimeoutSec: 120,
			AudioRetention:      8,
		},
		Database: DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
		Catalog: CatalogConfig{
			PageSize: 20,
			Sources:  []SourceConfig{{Type: "sample"}},
		},
		History: HistoryConfig{Timezone: "UTC"},
	}
}

func TestConfig_Validate_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing admin token",
			mutate:  func(c *Config) { c.Admin.Token = "" },
			wantErr: true,
			errMsg:  "Token",
		},
		{
			name:    "unknown speech provider",
			mutate:  func(c *Config) { c.Speech.Provider = "festival" },
			wantErr: true,
			errMsg:  "Provider",
		},
		{
			name:    "openai without api key",
			mutate:  func(c *Config) { c.Speech.Provider = "openai" },
			wantErr: true,
			errMsg:  "api_key",
		},
		{
			name: "openai with api key",
			mutate: func(c *Config) {
				c.Speech.Provider = "openai"
				c.Speech.APIKey = "sk-test"
			},
		},
		{
			name:    "rate out of range",
			mutate:  func(c *Config) { c.Speech.Rate = 5 },
			wantErr: true,
			errMsg:  "Rate",
		},
		{
			name:    "unknown database driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: true,
			errMsg:  "Driver",
		},
		{
			name:    "no catalog sources",
			mutate:  func(c *Config) { c.Catalog.Sources = nil },
			wantErr: true,
			errMsg:  "Sources",
		},
		{
			name:    "source without type",
			mutate:  func(c *Config) { c.Catalog.Sources = []SourceConfig{{DisplayName: "x"}} },
			wantErr: true,
			errMsg:  "Type",
		},
		{
			name:    "invalid timezone",
			mutate:  func(c *Config) { c.History.Timezone = "Mars/Olympus" },
			wantErr: true,
			errMsg:  "timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
admin:
  token: secret
catalog:
  sources:
    - type: sample
    - type: generated
      settings:
        count: 10
        seed: 7
  filters:
    duration_limit_filter:
      enabled: true
      settings:
        max_minutes: 8
history:
  timezone: UTC
`), 0o600))

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ADMIN_TOKEN", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "estimate", cfg.Speech.Provider)
	assert.Equal(t, "en-US", cfg.Speech.Lang)
	assert.InDelta(t, 0.9, cfg.Speech.Rate, 1e-9)
	assert.Equal(t, 150, cfg.Speech.WordsPerMinute)
	assert.Equal(t, 2*time.Minute, cfg.SynthesisTimeout())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "readaloud.db", cfg.Database.DSN)
	assert.Equal(t, 20, cfg.Catalog.PageSize)
	require.Len(t, cfg.Catalog.Sources, 2)
	assert.Equal(t, 10, cfg.Catalog.Sources[1].Settings["count"])
	assert.True(t, cfg.IsFilterEnabled("duration_limit_filter"))
	assert.False(t, cfg.IsFilterEnabled("difficulty_filter"))

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ADMIN_TOKEN", "env-token")
	t.Setenv("DATABASE_URL", "postgres://reader@localhost/readaloud")

	cfg, err := Parse([]byte(`
speech:
  provider: openai
catalog:
  sources:
    - type: store
`))
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.Speech.APIKey)
	assert.Equal(t, "env-token", cfg.Admin.Token)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://reader@localhost/readaloud", cfg.Database.DSN)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("admin: [unclosed"))
	assert.Error(t, err)
}
