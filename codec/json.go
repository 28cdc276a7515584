// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/goccy/go-json"
	"github.com/gogama/tmdbx/typeinfo"
)

// A Codec turns request bodies into bytes and response bytes into
// values of a described type. Implementations must be safe for
// concurrent use.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, t typeinfo.Type) (any, error)
}

// DefaultRegistry backs the JSON codec returned by NewJSON(nil).
var DefaultRegistry = NewRegistry()

// JSON is a Codec encoding with github.com/goccy/go-json and decoding
// through a Registry.
type JSON struct {
	registry *Registry
}

// NewJSON returns a JSON codec decoding through r, or through
// DefaultRegistry if r is nil.
func NewJSON(r *Registry) *JSON {
	if r == nil {
		r = DefaultRegistry
	}
	return &JSON{registry: r}
}

// Registry returns the registry the codec decodes through.
func (c *JSON) Registry() *Registry {
	return c.registry
}

// Encode marshals v as JSON.
func (c *JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode decodes data as t.
func (c *JSON) Decode(data []byte, t typeinfo.Type) (any, error) {
	return c.registry.Decode(data, t)
}
