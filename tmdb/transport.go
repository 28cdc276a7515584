// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdb

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gogama/tmdbx"
	"github.com/gogama/tmdbx/cache"
	"github.com/gogama/tmdbx/codec"
	"github.com/gogama/tmdbx/config"
	"github.com/gogama/tmdbx/metrics"
	"github.com/gogama/tmdbx/ratelimit"
	"github.com/gogama/tmdbx/retry"
	"github.com/gogama/tmdbx/timeout"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

// NewTransport returns an HTTP client configured by cfg. With cfg.HTTP2
// set, HTTP/2 is configured explicitly and idle connections are health
// checked with pings.
func NewTransport(cfg config.TransportConfig) (*http.Client, error) {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConns,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if cfg.HTTP2 {
		h2, err := http2.ConfigureTransports(tr)
		if err != nil {
			return nil, fmt.Errorf("tmdbx/tmdb: configure http2: %w", err)
		}
		h2.ReadIdleTimeout = 30 * time.Second
		h2.PingTimeout = 15 * time.Second
	} else {
		tr.ForceAttemptHTTP2 = true
	}
	return &http.Client{Transport: tr}, nil
}

// NewClientHandlers returns the handler group NewFromConfig installs on
// its transport clients.
func NewClientHandlers(logger zerolog.Logger) *tmdbx.HandlerGroup {
	g := &tmdbx.HandlerGroup{}
	g.PushBackAll(tmdbx.LogHandler(logger))
	return g
}

// NewCache returns the fallback cache selected by cfg, or nil for
// backend "none". A Redis backend is pinged first.
func NewCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryStore(cfg.MaxEntries), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		s := cache.NewRedisStore(client, cfg.Prefix)
		if err := s.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("tmdbx/tmdb: unknown cache backend %q", cfg.Backend)
	}
}

// Options lets NewFromConfig callers add to what the configuration
// provides.
type Options struct {
	// Handlers, if set, receives the events of every API and image
	// request in place of a group holding only a log handler.
	Handlers *tmdbx.HandlerGroup
	// Cache overrides the cache selected by the configuration.
	Cache cache.Store
	// Metrics, if set, is installed on the handlers.
	Metrics *metrics.Metrics
}

// NewFromConfig builds a Client with the transport, pacing, retry,
// timeout and cache settings of cfg.
//
// A cache opened from the configuration is closed by Client.Close, or
// before returning if NewFromConfig fails. A cache passed in Options
// stays the caller's to close.
func NewFromConfig(cfg *config.Config, logger zerolog.Logger, opts ...Options) (_ *Client, err error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	httpClient, err := NewTransport(cfg.Transport)
	if err != nil {
		return nil, err
	}
	var httpDoer tmdbx.HTTPDoer = httpClient
	if cfg.RateLimit.Enabled {
		httpDoer = ratelimit.New(httpClient, rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst, logger)
	}

	handlers := o.Handlers
	if handlers == nil {
		handlers = NewClientHandlers(logger)
	}
	if o.Metrics != nil {
		o.Metrics.Install(handlers)
	}
	retryPolicy := retry.NewPolicy(
		retry.Times(cfg.Retry.Times).And(retry.Retryable),
		retry.NewRetryAfterWaiter(retry.NewExpWaiter(cfg.Retry.BaseWait, cfg.Retry.MaxWait, time.Now()), cfg.Retry.RetryAfterMax),
	)
	doer := &tmdbx.Client{
		HTTPDoer:      httpDoer,
		RetryPolicy:   retryPolicy,
		TimeoutPolicy: timeout.Fixed(cfg.Transport.AttemptTimeout),
		Handlers:      handlers,
	}

	var owned io.Closer
	store := o.Cache
	if store == nil {
		store, err = NewCache(context.Background(), cfg.Cache)
		if err != nil {
			return nil, err
		}
		if cl, ok := store.(io.Closer); ok {
			owned = cl
			defer func() {
				if err != nil {
					_ = owned.Close()
				}
			}()
		}
	}

	c := codec.NewJSON(NewRegistry())
	api, err := tmdbx.NewAdapter(tmdbx.Config{
		BaseURL:  cfg.API.BaseURL,
		Doer:     doer,
		Codec:    c,
		Cache:    store,
		CacheTTL: cfg.Cache.TTL,
		Logger:   &logger,
	})
	if err != nil {
		return nil, err
	}
	images, err := tmdbx.NewAdapter(tmdbx.Config{
		BaseURL: cfg.API.ImageBaseURL,
		Doer:    doer,
		Codec:   c,
		Logger:  &logger,
	})
	if err != nil {
		return nil, err
	}

	client := New(api, images, cfg.API.APIKey, cfg.API.APIVersion, logger)
	client.cache = owned
	return client, nil
}
