// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

// Package config loads server configuration by merging defaults, an
// optional YAML file, and command-line flags, in that order.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the full server configuration.
type Config struct {
	Log        LogConfig        `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	Cooldown   CooldownConfig   `koanf:"cooldown"`
	Completion CompletionConfig `koanf:"completion"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"` // "json" or "text"
}

// MetricsConfig configures the observability endpoint.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // empty disables the server
}

// RateLimitConfig configures the command flood limiter.
type RateLimitConfig struct {
	Burst     int     `koanf:"burst"`
	Sustained float64 `koanf:"sustained"`
}

// CooldownConfig configures cooldown tracking.
type CooldownConfig struct {
	SweepInterval time.Duration `koanf:"sweep_interval"`
	MaxAge        time.Duration `koanf:"max_age"`
}

// CompletionConfig configures tab completion.
type CompletionConfig struct {
	Limit     int           `koanf:"limit"`
	TTL       time.Duration `koanf:"ttl"`
	CacheSize int           `koanf:"cache_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:     LogConfig{Format: "json"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9100"},
		RateLimit: RateLimitConfig{
			Burst:     10,
			Sustained: 2.0,
		},
		Cooldown: CooldownConfig{
			SweepInterval: time.Minute,
			MaxAge:        10 * time.Minute,
		},
		Completion: CompletionConfig{
			Limit:     50,
			TTL:       2 * time.Second,
			CacheSize: 256,
		},
	}
}

// Load merges defaults, the YAML file at path (when non-empty), and any
// set flags from flags (when non-nil). Flag names use dots as hierarchy
// separators (e.g. --log.format).
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, oops.In("config").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return cfg, oops.In("config").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, oops.In("config").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.In("config").
			Code("INVALID_LOG_FORMAT").
			With("format", c.Log.Format).
			New("log.format must be 'json' or 'text'")
	}
	if c.RateLimit.Burst < 0 {
		return oops.In("config").Code("INVALID_RATELIMIT").New("ratelimit.burst cannot be negative")
	}
	if c.RateLimit.Sustained < 0 {
		return oops.In("config").Code("INVALID_RATELIMIT").New("ratelimit.sustained cannot be negative")
	}
	if c.Completion.Limit < 0 {
		return oops.In("config").Code("INVALID_COMPLETION").New("completion.limit cannot be negative")
	}
	return nil
}
