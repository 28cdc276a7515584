// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gogama/tmdbx/typeinfo"
)

// Built-in type identifiers.
const (
	String = "string"
	Int    = "int"
	Float  = "float"
	Bool   = "bool"
	Any    = "any"
	List   = "list"
	Map    = "map"
	Paged  = "page"
)

// A Page is one page of a paginated TMDb result. Results holds values
// of the page's type argument.
type Page struct {
	Page         int
	TotalPages   int
	TotalResults int
	Results      []any
}

type pageWire struct {
	Page         int               `json:"page"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
	Results      []json.RawMessage `json:"results"`
}

func registerBuiltins(r *Registry) {
	MustRegister[string](r, String)
	MustRegister[int](r, Int)
	MustRegister[float64](r, Float)
	MustRegister[bool](r, Bool)
	MustRegister[any](r, Any)
	mustRegisterGeneric(r, List, 1, decodeList)
	mustRegisterGeneric(r, Map, 2, decodeMap)
	mustRegisterGeneric(r, Paged, 1, decodePage)
}

func mustRegisterGeneric(r *Registry, id string, arity int, fn GenericFunc) {
	if err := r.RegisterGeneric(id, arity, fn); err != nil {
		panic(err)
	}
}

func decodeList(r *Registry, data []byte, args []typeinfo.Type) (any, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return decodeAll(r, raw, args[0])
}

func decodeMap(r *Registry, data []byte, args []typeinfo.Type) (any, error) {
	if !args[0].Equal(typeinfo.Simple(String)) {
		return nil, fmt.Errorf("map keys must be %s, not %s", String, args[0])
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any(nil), nil
	}
	m := make(map[string]any, len(raw))
	for k, v := range raw {
		x, err := r.Decode(v, args[1])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		m[k] = x
	}
	return m, nil
}

func decodePage(r *Registry, data []byte, args []typeinfo.Type) (any, error) {
	var w pageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	results, err := decodeAll(r, w.Results, args[0])
	if err != nil {
		return nil, err
	}
	return Page{
		Page:         w.Page,
		TotalPages:   w.TotalPages,
		TotalResults: w.TotalResults,
		Results:      results,
	}, nil
}

func decodeAll(r *Registry, raw []json.RawMessage, t typeinfo.Type) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]any, len(raw))
	for i := range raw {
		v, err := r.Decode(raw[i], t)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
