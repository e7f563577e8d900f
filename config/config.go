// Package config loads process configuration the way the serverless
// platform repo's internal/config does: a JSON-tagged struct with
// defaults, layered with environment variable and flag overrides,
// without reaching for a third-party config library — none of the
// corpus's complete repos use one for their own process config either.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// ScriptConfig mirrors script.Config's tunables so the cmd/ entry point
// can build one without importing package script from config (config
// stays a leaf package).
type ScriptConfig struct {
	Timeout  time.Duration `json:"timeout"`
	MaxDepth int           `json:"max_depth"`
}

// DelayQueueConfig holds DelayQueue tunables (§4.9).
type DelayQueueConfig struct {
	Enabled bool `json:"enabled"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text, json
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
	Addr      string `json:"addr"` // listen address for /metrics
}

// Config is the root process configuration.
type Config struct {
	ListenPort int              `json:"listen_port"`
	DBPath     string           `json:"db_path"`
	Script     ScriptConfig     `json:"script"`
	DelayQueue DelayQueueConfig `json:"delay_queue"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
}

// Default returns a Config with sensible defaults, matching §4.6/§4.9's
// named defaults (5s script timeout, depth 50).
func Default() *Config {
	return &Config{
		ListenPort: 7777,
		DBPath:     "world.db",
		Script: ScriptConfig{
			Timeout:  5 * time.Second,
			MaxDepth: 50,
		},
		DelayQueue: DelayQueueConfig{Enabled: true},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "atrium",
			Addr:      ":9090",
		},
	}
}

// LoadFromFile reads a JSON config file over top of Default()'s values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv applies ATRIUM_*-prefixed environment variable overrides.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("ATRIUM_LISTEN_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ListenPort = n
		}
	}
	if v := os.Getenv("ATRIUM_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ATRIUM_SCRIPT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Script.Timeout = d
		}
	}
	if v := os.Getenv("ATRIUM_SCRIPT_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Script.MaxDepth = n
		}
	}
	if v := os.Getenv("ATRIUM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ATRIUM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ATRIUM_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "1" || v == "true"
	}
	if v := os.Getenv("ATRIUM_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}
