package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "data/election_results.csv", cfg.Dataset.Source)
	assert.Equal(t, "auto", cfg.Dataset.Format)
	assert.Equal(t, 15*time.Minute, cfg.Dataset.CacheTTL)
	assert.True(t, cfg.Dataset.LoadOnStart)
	assert.Equal(t, 5, cfg.Dataset.TopN)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EPULSE_SERVER_PORT", "9090")
	t.Setenv("EPULSE_DATASET_SOURCE", "https://example.com/results.xlsx")
	t.Setenv("EPULSE_DATASET_FORMAT", "xlsx")
	t.Setenv("EPULSE_DATASET_TOP_N", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://example.com/results.xlsx", cfg.Dataset.Source)
	assert.Equal(t, "xlsx", cfg.Dataset.Format)
	assert.Equal(t, 10, cfg.Dataset.TopN)
}

func TestLoad_InvalidFormat(t *testing.T) {
	t.Setenv("EPULSE_DATASET_FORMAT", "parquet")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dataset format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "non-positive read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "empty dataset source",
			mutate:  func(c *Config) { c.Dataset.Source = "" },
			wantErr: "dataset source",
		},
		{
			name:    "bad dataset format",
			mutate:  func(c *Config) { c.Dataset.Format = "tsv" },
			wantErr: "invalid dataset format",
		},
		{
			name:    "non-positive top n",
			mutate:  func(c *Config) { c.Dataset.TopN = 0 },
			wantErr: "top_n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CoercesLoggingDefaults(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMerge(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9000
	fileCfg.Dataset.Source = "file.csv"
	fileCfg.Dataset.CacheTTL = time.Hour

	envCfg := Config{}
	envCfg.Server.Port = 8081 // env wins where set

	merged := merge(fileCfg, envCfg)
	assert.Equal(t, 8081, merged.Server.Port)
	assert.Equal(t, "file.csv", merged.Dataset.Source)
	assert.Equal(t, time.Hour, merged.Dataset.CacheTTL)
}
