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
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Contains(t, cfg.Directory.URL, "corpList.do")
	assert.Equal(t, time.Hour, cfg.Directory.CacheTTL)
	assert.Contains(t, cfg.MarketData.BaseURL, "siseJson")
	assert.Contains(t, cfg.News.BaseURL, "news.google.com/rss/search")
	assert.Equal(t, 10*time.Minute, cfg.News.CacheTTL)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("KRX_SERVER_PORT", "9999")
	t.Setenv("KRX_DIRECTORY_CACHE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Directory.CacheTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "empty directory URL",
			mutate:  func(c *Config) { c.Directory.URL = "" },
			wantErr: "directory URL",
		},
		{
			name:    "zero cache TTL",
			mutate:  func(c *Config) { c.Directory.CacheTTL = 0 },
			wantErr: "cache TTL",
		},
		{
			name:    "empty market data URL",
			mutate:  func(c *Config) { c.MarketData.BaseURL = "" },
			wantErr: "market data base URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NormalizesLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestMergeConfigs_EnvPrecedence(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 3000
	fileCfg.Directory.URL = "http://file.example/corpList.do"

	envCfg := Config{}
	envCfg.Server.Port = 4000

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, 4000, merged.Server.Port, "env value wins")
	assert.Equal(t, "http://file.example/corpList.do", merged.Directory.URL, "file fills the gap")
}
