// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gogama/tmdbx"
	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/typeinfo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultAPIVersion is the API version used when none is configured.
const DefaultAPIVersion = 3

// DefaultImageConcurrency bounds the parallel downloads of Images.
const DefaultImageConcurrency = 4

// A Client calls the TMDb API through one executor and downloads
// images through another, since images live on a different host. It
// is safe for concurrent use.
type Client struct {
	api        tmdbx.Executor
	images     tmdbx.Executor
	apiKey     string
	apiVersion int
	logger     zerolog.Logger
	cache      io.Closer
}

// New returns a Client. api must be based on the API host, e.g.
// https://api.themoviedb.org, and images on the image host, e.g.
// https://image.tmdb.org.
func New(api, images tmdbx.Executor, apiKey string, apiVersion int, logger zerolog.Logger) *Client {
	if api == nil || images == nil {
		panic("tmdbx/tmdb: nil executor")
	}
	if apiVersion <= 0 {
		apiVersion = DefaultAPIVersion
	}
	return &Client{
		api:        api,
		images:     images,
		apiKey:     apiKey,
		apiVersion: apiVersion,
		logger:     logger.With().Str("component", "tmdb").Logger(),
	}
}

// Do runs d against the API. d.URL is a path relative to the API
// version, such as "company/{id}". The api_key parameter is added
// unless d already has one.
//
// On a 200 response Do returns the body decoded as t. Any other
// response gives an *ErrorResponseError, and transport failures give
// the adapter's error.
func (c *Client) Do(ctx context.Context, d *request.Descriptor, t typeinfo.Type) (any, error) {
	if d == nil {
		return nil, errors.New("tmdbx/tmdb: nil descriptor")
	}
	d2 := *d
	d2.URL = fmt.Sprintf("/%d/%s", c.apiVersion, strings.Trim(d.URL, " /"))
	if !d2.Query.Has("api_key") {
		d2.Query = d2.Query.Add("api_key", c.apiKey)
	}
	return c.execute(ctx, c.api, &d2, t)
}

// Configuration fetches the API configuration.
func (c *Client) Configuration(ctx context.Context) (*Configuration, error) {
	return get[Configuration](ctx, c, request.Get("configuration"), TypeConfiguration)
}

// Company fetches the company with the given id.
func (c *Client) Company(ctx context.Context, id int) (*Company, error) {
	d := request.Get("company/{company_id}").WithVar("company_id", id)
	return get[Company](ctx, c, d, TypeCompany)
}

// CompanyAlternativeNames fetches the other names of a company.
func (c *Client) CompanyAlternativeNames(ctx context.Context, id int) (*CompanyAlternativeNames, error) {
	d := request.Get("company/{company_id}/alternative_names").WithVar("company_id", id)
	return get[CompanyAlternativeNames](ctx, c, d, TypeCompanyAlternativeNames)
}

// Image downloads one image file in the given size, e.g. "w92" or
// "original". file is a path as found in the API models, like
// "/wdyoUGBhAdGO0ClzWPi0v7pZb98.png".
func (c *Client) Image(ctx context.Context, size, file string) ([]byte, error) {
	d := request.Get("/t/p/{size}/{file}").
		WithVar("size", size).
		WithVar("file", strings.TrimLeft(file, "/"))
	v, err := c.execute(ctx, c.images, d, typeinfo.Raw())
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Images downloads files in parallel, at most limit at a time. A limit
// below one means DefaultImageConcurrency. The first failure cancels
// the downloads still running and is returned.
func (c *Client) Images(ctx context.Context, size string, files []string, limit int) ([][]byte, error) {
	if limit < 1 {
		limit = DefaultImageConcurrency
	}
	out := make([][]byte, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		g.Go(func() error {
			b, err := c.Image(ctx, size, file)
			if err != nil {
				return fmt.Errorf("image %s: %w", file, err)
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes both executors, and the cache if the Client opened it.
func (c *Client) Close() error {
	err := errors.Join(c.api.Close(), c.images.Close())
	if c.cache != nil {
		err = errors.Join(err, c.cache.Close())
	}
	return err
}

func (c *Client) execute(ctx context.Context, x tmdbx.Executor, d *request.Descriptor, t typeinfo.Type) (any, error) {
	f, err := x.Execute(ctx, d, t)
	if err != nil {
		return nil, err
	}
	env, err := f.Await(ctx)
	if err != nil {
		return nil, err
	}
	if env.Cached {
		c.logger.Info().Str("path", d.URL).Msg("served from cache")
	}
	if p := env.ErrorPayload(); p != nil {
		return nil, &ErrorResponseError{Payload: p, Method: string(d.Method), Path: d.URL}
	}
	return env.Body, nil
}

func get[T any](ctx context.Context, c *Client, d *request.Descriptor, typeID string) (*T, error) {
	v, err := c.Do(ctx, d, typeinfo.Simple(typeID))
	if err != nil {
		return nil, err
	}
	t, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("tmdbx/tmdb: %s decoded as %T", typeID, v)
	}
	return &t, nil
}
