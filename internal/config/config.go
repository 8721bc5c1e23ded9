package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/clock"
	"spx-dashboard/internal/logging"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "SPXDASH"
	// DefaultFileName is looked up in the working directory and ./configs
	// when no explicit path is given.
	DefaultFileName = "spxdash"
)

// Config is the service configuration. Every key has a default, can be set
// from YAML, and can be overridden by SPXDASH_<SECTION>_<KEY>.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	Fixtures    FixturesConfig    `mapstructure:"fixtures" yaml:"fixtures"`
	Clock       ClockConfig       `mapstructure:"clock" yaml:"clock"`
	Feed        FeedConfig        `mapstructure:"feed" yaml:"feed"`
	Market      MarketConfig      `mapstructure:"market" yaml:"market"`
	Risk        RiskConfig        `mapstructure:"risk" yaml:"risk"`
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance"`
	Telegram    TelegramConfig    `mapstructure:"telegram" yaml:"telegram"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port" yaml:"port"`
	Env         string   `mapstructure:"env" yaml:"env"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

func (s ServerConfig) Production() bool { return s.Env == "production" }

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
	File   string `mapstructure:"file" yaml:"file"`
}

type FixturesConfig struct {
	// Path optionally replaces the embedded dataset.
	Path string `mapstructure:"path" yaml:"path"`
}

type ClockConfig struct {
	DateTimeInterval time.Duration `mapstructure:"datetime_interval" yaml:"datetime_interval"`
	JitterDelay      time.Duration `mapstructure:"jitter_delay" yaml:"jitter_delay"`
	JitterInterval   time.Duration `mapstructure:"jitter_interval" yaml:"jitter_interval"`
}

type FeedConfig struct {
	Type        string        `mapstructure:"type" yaml:"type"`
	URL         string        `mapstructure:"url" yaml:"url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
}

type MarketConfig struct {
	Open  string `mapstructure:"open" yaml:"open"`
	Close string `mapstructure:"close" yaml:"close"`
}

type RiskConfig struct {
	AccountBalance    float64 `mapstructure:"account_balance" yaml:"account_balance"`
	RiskPercent       float64 `mapstructure:"risk_percent" yaml:"risk_percent"`
	SpreadWidthSource string  `mapstructure:"spread_width_source" yaml:"spread_width_source"`
}

type PerformanceConfig struct {
	Source string `mapstructure:"source" yaml:"source"`
}

type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Token   string `mapstructure:"token" yaml:"token"`
	ChatID  int64  `mapstructure:"chat_id" yaml:"chat_id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/spxdash.log")

	v.SetDefault("fixtures.path", "")

	v.SetDefault("clock.datetime_interval", time.Second)
	v.SetDefault("clock.jitter_delay", 5*time.Second)
	v.SetDefault("clock.jitter_interval", 30*time.Second)

	v.SetDefault("feed.type", "simulated")
	v.SetDefault("feed.url", "")
	v.SetDefault("feed.timeout", 10*time.Second)
	v.SetDefault("feed.cache_ttl", 15*time.Second)
	v.SetDefault("feed.max_attempts", 3)

	v.SetDefault("market.open", "09:00")
	v.SetDefault("market.close", "16:00")

	v.SetDefault("risk.account_balance", 100000)
	v.SetDefault("risk.risk_percent", 2)
	v.SetDefault("risk.spread_width_source", string(analysis.WidthFixed))

	v.SetDefault("performance.source", string(analysis.PerformanceFixture))

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}
	return &c
}

// Load reads and validates the configuration. path may be empty.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked layers defaults, an optional YAML file, a .env file and the
// environment, without validating the result.
func LoadUnchecked(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	applyLegacyEnv(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if path != "" && c.Fixtures.Path != "" && !filepath.IsAbs(c.Fixtures.Path) {
		// Relative to the config file when that file exists.
		cand := filepath.Join(filepath.Dir(path), c.Fixtures.Path)
		if _, err := os.Stat(cand); err == nil {
			c.Fixtures.Path = cand
		}
	}
	return &c, nil
}

// loadDotEnv loads name into the process environment if it exists. Variables
// already set win.
func loadDotEnv(name string) error {
	if _, err := os.Stat(name); err != nil {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

// applyLegacyEnv honours API_PORT and API_ENV unless the prefixed variables
// are set.
func applyLegacyEnv(v *viper.Viper) {
	if port := os.Getenv("API_PORT"); port != "" && os.Getenv(EnvPrefix+"_SERVER_PORT") == "" {
		v.Set("server.port", port)
	}
	if env := os.Getenv("API_ENV"); env != "" && os.Getenv(EnvPrefix+"_SERVER_ENV") == "" {
		v.Set("server.env", env)
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Env {
	case "development", "production", "test":
	default:
		add("server.env must be development, production or test, got %q", c.Server.Env)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		add("log.format must be json or text, got %q", c.Log.Format)
	}
	switch c.Log.Output {
	case "stdout":
	case "file", "both":
		if c.Log.File == "" {
			add("log.file is required when log.output is %s", c.Log.Output)
		}
	default:
		add("log.output must be stdout, file or both, got %q", c.Log.Output)
	}

	if c.Clock.DateTimeInterval <= 0 {
		add("clock.datetime_interval must be positive")
	}
	if c.Clock.JitterDelay < 0 {
		add("clock.jitter_delay must not be negative")
	}
	if c.Clock.JitterInterval <= 0 {
		add("clock.jitter_interval must be positive")
	}

	switch c.Feed.Type {
	case "simulated":
	case "http":
		if c.Feed.URL == "" {
			add("feed.url is required when feed.type is http")
		}
		if c.Feed.Timeout <= 0 {
			add("feed.timeout must be positive")
		}
		if c.Feed.MaxAttempts < 1 {
			add("feed.max_attempts must be at least 1")
		}
		if c.Feed.CacheTTL < 0 {
			add("feed.cache_ttl must not be negative")
		}
	default:
		add("feed.type must be simulated or http, got %q", c.Feed.Type)
	}

	if _, err := c.MarketHours(); err != nil {
		add("market: %v", err)
	}

	if c.Risk.AccountBalance < 0 {
		add("risk.account_balance must not be negative")
	}
	if c.Risk.RiskPercent < 0 || c.Risk.RiskPercent > 100 {
		add("risk.risk_percent must be between 0 and 100")
	}
	if !analysis.WidthSource(c.Risk.SpreadWidthSource).Valid() {
		add("risk.spread_width_source must be fixed or params, got %q", c.Risk.SpreadWidthSource)
	}
	if !analysis.PerformanceSource(c.Performance.Source).Valid() {
		add("performance.source must be fixture or derived, got %q", c.Performance.Source)
	}

	if c.Telegram.Enabled {
		if c.Telegram.Token == "" {
			add("telegram.token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			add("telegram.chat_id is required when telegram is enabled")
		}
	}

	return errors.Join(errs...)
}

func (c *Config) MarketHours() (analysis.MarketHours, error) {
	return analysis.ParseMarketHours(c.Market.Open, c.Market.Close)
}

func (c *Config) RiskInputs() analysis.RiskInputs {
	return analysis.RiskInputs{
		AccountBalance: decimal.NewFromFloat(c.Risk.AccountBalance),
		RiskPercent:    decimal.NewFromFloat(c.Risk.RiskPercent),
	}
}

func (c *Config) ClockConfig() clock.Config {
	return clock.Config{
		DateTimeInterval: c.Clock.DateTimeInterval,
		JitterDelay:      c.Clock.JitterDelay,
		JitterInterval:   c.Clock.JitterInterval,
	}
}

func (c *Config) HTTPFeedConfig() clock.HTTPFeedConfig {
	return clock.HTTPFeedConfig{
		URL:         c.Feed.URL,
		Timeout:     c.Feed.Timeout,
		CacheTTL:    c.Feed.CacheTTL,
		MaxAttempts: c.Feed.MaxAttempts,
	}
}

func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: c.Log.Output,
		File:   c.Log.File,
	}
}

// MarshalYAML writes durations as strings ("30s") so the file reads back.
func (c ClockConfig) MarshalYAML() (any, error) {
	return map[string]string{
		"datetime_interval": c.DateTimeInterval.String(),
		"jitter_delay":      c.JitterDelay.String(),
		"jitter_interval":   c.JitterInterval.String(),
	}, nil
}

func (f FeedConfig) MarshalYAML() (any, error) {
	type plain struct {
		Type        string `yaml:"type"`
		URL         string `yaml:"url"`
		Timeout     string `yaml:"timeout"`
		CacheTTL    string `yaml:"cache_ttl"`
		MaxAttempts int    `yaml:"max_attempts"`
	}
	return plain{
		Type:        f.Type,
		URL:         f.URL,
		Timeout:     f.Timeout.String(),
		CacheTTL:    f.CacheTTL.String(),
		MaxAttempts: f.MaxAttempts,
	}, nil
}

// SaveToFile writes c as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
