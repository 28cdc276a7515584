// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TMDB"

// DefaultEnvFile is loaded by Load if it exists and no other env file
// was given.
const DefaultEnvFile = ".env"

type options struct {
	envFile string
}

// An Option changes how Load finds its inputs.
type Option func(*options)

// WithEnvFile makes Load read path instead of DefaultEnvFile. Unlike
// the default, a missing file is then an error.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// Load reads the configuration. If path is empty, tmdbx.yaml is looked
// up in the working directory and in $HOME/.tmdbx, and its absence is
// not an error. Variables from the env file never override ones
// already set in the environment.
func Load(path string, opts ...Option) (*Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := loadEnvFile(o.envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.api_key", EnvPrefix+"_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("tmdbx/config: error reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("tmdbx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.tmdbx")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("tmdbx/config: error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("tmdbx/config: error unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("tmdbx/config: error loading %s: %w", DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("tmdbx/config: error loading %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.themoviedb.org")
	v.SetDefault("api.image_base_url", "https://image.tmdb.org")
	v.SetDefault("api.api_version", 3)

	v.SetDefault("transport.connect_timeout", "5s")
	v.SetDefault("transport.attempt_timeout", "3s")
	v.SetDefault("transport.max_idle_conns", 10)
	v.SetDefault("transport.idle_conn_timeout", "90s")
	v.SetDefault("transport.http2", false)

	v.SetDefault("retry.times", 2)
	v.SetDefault("retry.base_wait", "250ms")
	v.SetDefault("retry.max_wait", "2s")
	v.SetDefault("retry.retry_after_max", "15s")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.per_second", 4)
	v.SetDefault("rate_limit.burst", 1)

	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.prefix", "tmdbx:")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against the constraints in its struct tags.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("tmdbx/config: invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("tmdbx/config: invalid configuration: %s", strings.Join(msgs, ", "))
}
