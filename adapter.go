// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gogama/tmdbx/cache"
	"github.com/gogama/tmdbx/codec"
	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/typeinfo"
	"github.com/rs/zerolog"
)

// Version is the library version sent in the default User-Agent.
const Version = "0.4.0"

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "tmdbx/" + Version

// DefaultCacheTTL is how long responses stay in the fallback cache when
// Config.CacheTTL is zero.
const DefaultCacheTTL = 10 * time.Minute

// Config configures an Adapter. Only BaseURL is required.
type Config struct {
	// BaseURL is the absolute URL that URL templates are relative to,
	// e.g. "https://api.themoviedb.org". A trailing "/" is dropped.
	BaseURL string
	// Doer executes the request plans. Defaults to a zero Client.
	Doer Doer
	// Codec encodes bodies and decodes responses. Defaults to
	// codec.NewJSON(nil).
	Codec codec.Codec
	// Cache, if set, stores successful GET responses and serves them
	// when the transport fails.
	Cache cache.Store
	// CacheTTL is the lifetime of cached responses.
	CacheTTL time.Duration
	// UserAgent is sent on every request.
	UserAgent string
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger
}

// An Adapter turns request descriptors into HTTP calls through a Doer
// and maps the responses into Envelopes. It is safe for concurrent use
// and holds no per-call state.
type Adapter struct {
	base      string
	doer      Doer
	codec     codec.Codec
	cache     cache.Store
	cacheTTL  time.Duration
	userAgent string
	logger    zerolog.Logger
	closed    atomic.Bool
}

// NewAdapter validates cfg and returns an Adapter.
func NewAdapter(cfg Config) (*Adapter, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("tmdbx: invalid base URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("tmdbx: base URL %q is not absolute", cfg.BaseURL)
	}

	a := &Adapter{
		base:      base,
		doer:      cfg.Doer,
		codec:     cfg.Codec,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		userAgent: cfg.UserAgent,
		logger:    zerolog.Nop(),
	}
	if a.doer == nil {
		a.doer = &Client{}
	}
	if a.codec == nil {
		a.codec = codec.NewJSON(nil)
	}
	if a.cacheTTL <= 0 {
		a.cacheTTL = DefaultCacheTTL
	}
	if a.userAgent == "" {
		a.userAgent = DefaultUserAgent
	}
	if cfg.Logger != nil {
		a.logger = cfg.Logger.With().Str("component", "adapter").Logger()
	}
	return a, nil
}

// BaseURL returns the base URL templates are resolved against.
func (a *Adapter) BaseURL() string {
	return a.base
}

// Execute builds the HTTP call described by d and starts it in its own
// goroutine. t describes the wanted shape of a 200 response body.
//
// Mistakes in d, such as a missing URI variable, are returned as a
// *CallerError before anything is sent. Otherwise the Future completes
// with an *Envelope for any HTTP response, or a *TransportError if none
// was obtained. ctx bounds the whole call, including retries.
func (a *Adapter) Execute(ctx context.Context, d *request.Descriptor, t typeinfo.Type) (*Future, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	p, err := a.plan(ctx, d, t)
	if err != nil {
		return nil, err
	}

	f := newFuture(p.Method, redactURL(p.URL))
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.complete(nil, fmt.Errorf("tmdbx: panic during call: %v", r))
			}
		}()
		f.complete(a.dispatch(p, t))
	}()
	return f, nil
}

// Do is the synchronous form of Execute. If ctx is done before the
// call completes, Do returns a *TransportError wrapping ctx.Err().
func (a *Adapter) Do(ctx context.Context, d *request.Descriptor, t typeinfo.Type) (*Envelope, error) {
	f, err := a.Execute(ctx, d, t)
	if err != nil {
		return nil, err
	}
	return f.Await(ctx)
}

// Close stops the adapter accepting calls and closes idle connections
// of the Doer. Calls already started run to completion. Close is
// idempotent.
func (a *Adapter) Close() error {
	if a.closed.CompareAndSwap(false, true) {
		if ic, ok := a.doer.(IdleCloser); ok {
			ic.CloseIdleConnections()
		}
	}
	return nil
}

func (a *Adapter) plan(ctx context.Context, d *request.Descriptor, t typeinfo.Type) (*request.Plan, error) {
	if ctx == nil {
		return nil, &CallerError{Op: "describe", Err: errors.New("nil context")}
	}
	if d == nil {
		return nil, &CallerError{Op: "describe", Err: errors.New("nil descriptor")}
	}
	if !d.Method.Valid() {
		return nil, &CallerError{Op: "describe", Err: fmt.Errorf("unsupported method %q", d.Method)}
	}

	u, err := BuildURL(a.base, d.URL, d.Vars, d.Query)
	if err != nil {
		return nil, err
	}
	body, contentType, err := encodeBody(a.codec, d.Body)
	if err != nil {
		return nil, err
	}
	p, err := request.NewPlan(ctx, string(d.Method), u, body)
	if err != nil {
		return nil, &CallerError{Op: "url", Err: fmt.Errorf("%w: %v", ErrMalformedURL, err)}
	}

	p.Header.Set("Accept", acceptFor(t))
	if contentType != "" {
		p.Header.Set("Content-Type", contentType)
	}
	p.Header.Set("User-Agent", a.userAgent)
	return p, nil
}

func (a *Adapter) dispatch(p *request.Plan, t typeinfo.Type) (*Envelope, error) {
	a.logger.Debug().
		Str("method", p.Method).
		Str("url", redactURL(p.URL)).
		Stringer("type", t).
		Msg("dispatching request")

	e, err := a.doer.Do(p)
	if err != nil {
		if env, ok := a.fromCache(p, t, err); ok {
			return env, nil
		}
		return nil, &TransportError{Method: p.Method, URL: redactURL(p.URL), Err: err}
	}

	if e.StatusCode() == http.StatusOK {
		a.toCache(p, e)
	}
	return a.mapResponse(e.StatusCode(), e.Header(), e.Body, t), nil
}

func (a *Adapter) mapResponse(status int, header http.Header, body []byte, t typeinfo.Type) *Envelope {
	env := &Envelope{Status: status, Header: header}

	if status != http.StatusOK {
		env.Body = newErrorPayload(status, body)
		return env
	}

	if t.IsRaw() {
		env.Body = body
		return env
	}

	v, err := a.codec.Decode(body, t)
	if err != nil {
		a.logger.Debug().Err(err).Stringer("type", t).Msg("response body did not decode")
		env.Body = &ErrorPayload{
			Message: fallbackMessage(status, body),
			Status:  status,
			Code:    status,
			Cause:   err,
		}
		return env
	}
	env.Body = v
	return env
}

func (a *Adapter) cacheable(p *request.Plan) bool {
	return a.cache != nil && p.Method == http.MethodGet
}

func (a *Adapter) toCache(p *request.Plan, e *request.Execution) {
	if !a.cacheable(p) {
		return
	}
	entry := &cache.Entry{
		Status: e.StatusCode(),
		Header: e.Header(),
		Body:   e.Body,
		Stored: time.Now(),
	}
	key := cache.Key(p.Method, p.URL.String())
	if err := cache.Put(context.WithoutCancel(p.Context()), a.cache, key, entry, a.cacheTTL); err != nil {
		a.logger.Warn().Err(err).Msg("failed to cache response")
	}
}

func (a *Adapter) fromCache(p *request.Plan, t typeinfo.Type, cause error) (*Envelope, bool) {
	if !a.cacheable(p) {
		return nil, false
	}
	key := cache.Key(p.Method, p.URL.String())
	entry, ok, err := cache.Lookup(context.WithoutCancel(p.Context()), a.cache, key)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to read response cache")
		return nil, false
	} else if !ok {
		return nil, false
	}

	a.logger.Warn().
		Err(redactErr(cause)).
		Str("url", redactURL(p.URL)).
		Time("stored", entry.Stored).
		Msg("transport failed, serving cached response")
	env := a.mapResponse(entry.Status, entry.Header, entry.Body, t)
	env.Cached = true
	return env, true
}

// redactURL renders u with the api_key query value hidden.
func redactURL(u *url.URL) string {
	q := u.Query()
	if !q.Has("api_key") {
		return u.String()
	}
	q.Set("api_key", "REDACTED")
	u2 := *u
	u2.RawQuery = q.Encode()
	return u2.String()
}

// redactErr hides the api_key in the URL of a *url.Error.
func redactErr(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return err
	}
	return &url.Error{Op: ue.Op, URL: redactURL(u), Err: ue.Err}
}
