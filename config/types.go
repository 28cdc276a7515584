// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import "time"

// Config is the complete tmdbx configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Transport TransportConfig `mapstructure:"transport"`
	Retry     RetryConfig     `mapstructure:"retry"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig locates the TMDb API.
type APIConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"required,url"`
	ImageBaseURL string `mapstructure:"image_base_url" validate:"required,url"`
	APIKey       string `mapstructure:"api_key" validate:"required"`
	APIVersion   int    `mapstructure:"api_version" validate:"min=1"`
}

// TransportConfig tunes the HTTP transport.
type TransportConfig struct {
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" validate:"gte=0"`
	AttemptTimeout  time.Duration `mapstructure:"attempt_timeout" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" validate:"gte=0"`
	HTTP2           bool          `mapstructure:"http2"`
}

// RetryConfig controls retries of failed attempts.
type RetryConfig struct {
	Times         int           `mapstructure:"times" validate:"gte=0,lte=10"`
	BaseWait      time.Duration `mapstructure:"base_wait" validate:"gt=0"`
	MaxWait       time.Duration `mapstructure:"max_wait" validate:"gtefield=BaseWait"`
	RetryAfterMax time.Duration `mapstructure:"retry_after_max" validate:"gte=0"`
}

// RateLimitConfig controls client-side request pacing.
type RateLimitConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	PerSecond float64 `mapstructure:"per_second" validate:"gt=0"`
	Burst     int     `mapstructure:"burst" validate:"gte=1"`
}

// CacheConfig selects the fallback response cache.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend" validate:"oneof=none memory redis"`
	TTL        time.Duration `mapstructure:"ttl" validate:"gte=0"`
	MaxEntries int           `mapstructure:"max_entries" validate:"gte=0"`
	RedisAddr  string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB    int           `mapstructure:"redis_db" validate:"gte=0"`
	Prefix     string        `mapstructure:"prefix"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
