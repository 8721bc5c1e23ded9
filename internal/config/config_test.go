package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"spx-dashboard/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, time.Second, c.Clock.DateTimeInterval)
	assert.Equal(t, 5*time.Second, c.Clock.JitterDelay)
	assert.Equal(t, 30*time.Second, c.Clock.JitterInterval)
	assert.Equal(t, "simulated", c.Feed.Type)
	assert.Equal(t, "fixed", c.Risk.SpreadWidthSource)
	assert.Equal(t, "fixture", c.Performance.Source)
	assert.Equal(t, "100000", c.RiskInputs().AccountBalance.String())

	h, err := c.MarketHours()
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultMarketHours, h)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spxdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
clock:
  jitter_interval: 10s
risk:
  spread_width_source: params
performance:
  source: derived
`), 0o644))

	t.Setenv("SPXDASH_LOG_LEVEL", "debug")
	t.Setenv("SPXDASH_FEED_MAX_ATTEMPTS", "5")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Clock.JitterInterval)
	assert.Equal(t, time.Second, c.Clock.DateTimeInterval, "unset keys keep defaults")
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 5, c.Feed.MaxAttempts)
	assert.Equal(t, "params", c.Risk.SpreadWidthSource)
}

func TestLoad_LegacyEnv(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("API_ENV", "production")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, c.Server.Port)
	assert.True(t, c.Server.Production())

	t.Setenv("SPXDASH_SERVER_PORT", "7100")
	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 7100, c.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		want string
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"env", func(c *Config) { c.Server.Env = "staging" }, "server.env"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log file", func(c *Config) { c.Log.Output = "file"; c.Log.File = "" }, "log.file"},
		{"interval", func(c *Config) { c.Clock.JitterInterval = 0 }, "clock.jitter_interval"},
		{"http feed url", func(c *Config) { c.Feed.Type = "http" }, "feed.url"},
		{"feed type", func(c *Config) { c.Feed.Type = "kafka" }, "feed.type"},
		{"market window", func(c *Config) { c.Market.Open = "17:00" }, "market"},
		{"risk percent", func(c *Config) { c.Risk.RiskPercent = 120 }, "risk.risk_percent"},
		{"width source", func(c *Config) { c.Risk.SpreadWidthSource = "auto" }, "risk.spread_width_source"},
		{"performance", func(c *Config) { c.Performance.Source = "live" }, "performance.source"},
		{"telegram", func(c *Config) { c.Telegram.Enabled = true }, "telegram.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.edit(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "spxdash.yaml")
	c := Default()
	c.Server.Port = 8181
	c.Clock.JitterInterval = 45 * time.Second
	require.NoError(t, c.SaveToFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "jitter_interval: 45s")

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, back.Server.Port)
	assert.Equal(t, 45*time.Second, back.Clock.JitterInterval)
	assert.Equal(t, c.Feed.Timeout, back.Feed.Timeout)
}
