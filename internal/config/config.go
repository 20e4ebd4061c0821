// Package config loads PropLab configuration from YAML with sane defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Host              string  `yaml:"host"`
	Port              int     `yaml:"port"`
	RequestTimeoutSec int     `yaml:"request_timeout_sec"`
	RateLimitPerSec   float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst    int     `yaml:"rate_limit_burst"`
}

// RequestTimeout returns the per-request timeout as a duration.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// DataConfig picks and configures the game log source.
type DataConfig struct {
	Source      string `yaml:"source"`
	LogsFile    string `yaml:"logs_file"`
	PostgresDSN string `yaml:"postgres_dsn"`
	UseBreaker  bool   `yaml:"use_breaker"`
}

// BacktestConfig tunes simulation defaults.
type BacktestConfig struct {
	AssumedOdds  int  `yaml:"assumed_odds"`
	CacheEnabled bool `yaml:"cache_enabled"`
	CacheTTLMin  int  `yaml:"cache_ttl_min"`
}

// CacheTTL returns the result cache TTL as a duration.
func (c BacktestConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMin) * time.Minute
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Backtest BacktestConfig `yaml:"backtest"`
	Log      LogConfig      `yaml:"log"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			RequestTimeoutSec: 30,
			RateLimitPerSec:   20,
			RateLimitBurst:    40,
		},
		Data: DataConfig{
			Source:     "file",
			LogsFile:   "data/gamelogs.json",
			UseBreaker: true,
		},
		Backtest: BacktestConfig{
			AssumedOdds:  -110,
			CacheEnabled: true,
			CacheTTLMin:  15,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error: the defaults stand.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.RequestTimeoutSec <= 0 {
		return errors.New("server.request_timeout_sec must be positive")
	}
	switch c.Data.Source {
	case "file":
		if c.Data.LogsFile == "" {
			return errors.New("data.logs_file is required for the file source")
		}
	case "postgres":
		if c.Data.PostgresDSN == "" {
			return errors.New("data.postgres_dsn is required for the postgres source")
		}
	default:
		return fmt.Errorf("data.source %q (want %q or %q)", c.Data.Source, "file", "postgres")
	}
	if c.Backtest.CacheEnabled && c.Backtest.CacheTTLMin <= 0 {
		return errors.New("backtest.cache_ttl_min must be positive when the cache is enabled")
	}
	return nil
}
