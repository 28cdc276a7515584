// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gogama/tmdbx/typeinfo"
)

const prefix = "tmdbx/codec: "

// ErrUnknownType is returned, wrapped, when a type identifier has no
// registered decoder.
var ErrUnknownType = errors.New("tmdbx/codec: unknown type")

// DecodeFunc decodes data into a value of one simple type.
type DecodeFunc func(data []byte) (any, error)

// GenericFunc decodes data into a value of a generic type. The type
// arguments are passed in args, and r may be used to decode nested
// values of those types.
type GenericFunc func(r *Registry, data []byte, args []typeinfo.Type) (any, error)

type generic struct {
	arity int
	fn    GenericFunc
}

// A Registry is the dispatch table from type identifiers to decoders.
// It is safe for concurrent use; registrations typically happen once at
// startup.
type Registry struct {
	lock    sync.RWMutex
	simple  map[string]DecodeFunc
	generic map[string]generic
}

// NewRegistry returns a Registry holding the built-in types.
func NewRegistry() *Registry {
	r := &Registry{
		simple:  make(map[string]DecodeFunc),
		generic: make(map[string]generic),
	}
	registerBuiltins(r)
	return r
}

// Register registers T under id, decoding with json.Unmarshal into a
// fresh T. The decoded value is a T, not a *T.
func Register[T any](r *Registry, id string) error {
	return r.RegisterFunc(id, func(data []byte) (any, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](r *Registry, id string) {
	if err := Register[T](r, id); err != nil {
		panic(err)
	}
}

// RegisterFunc registers a simple type decoder under id. It is an
// error to register an id twice.
func (r *Registry) RegisterFunc(id string, fn DecodeFunc) error {
	if id == "" {
		return errors.New("tmdbx/codec: empty type id")
	}
	if fn == nil {
		return errors.New("tmdbx/codec: nil decode func")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.registered(id) {
		return fmt.Errorf("tmdbx/codec: type %q already registered", id)
	}
	r.simple[id] = fn
	return nil
}

// RegisterGeneric registers a generic type constructor taking exactly
// arity type arguments.
func (r *Registry) RegisterGeneric(id string, arity int, fn GenericFunc) error {
	if id == "" {
		return errors.New("tmdbx/codec: empty type id")
	}
	if arity < 1 {
		return fmt.Errorf("tmdbx/codec: generic type %q needs at least one argument", id)
	}
	if fn == nil {
		return errors.New("tmdbx/codec: nil decode func")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.registered(id) {
		return fmt.Errorf("tmdbx/codec: type %q already registered", id)
	}
	r.generic[id] = generic{arity: arity, fn: fn}
	return nil
}

func (r *Registry) registered(id string) bool {
	_, ok1 := r.simple[id]
	_, ok2 := r.generic[id]
	return ok1 || ok2
}

// Known reports whether t can be decoded: it is Raw, or every
// identifier in it is registered with the right arity.
func (r *Registry) Known(t typeinfo.Type) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.known(t)
}

func (r *Registry) known(t typeinfo.Type) bool {
	switch t.Kind() {
	case typeinfo.KindRaw:
		return true
	case typeinfo.KindSimple:
		_, ok := r.simple[t.ID()]
		return ok
	default:
		g, ok := r.generic[t.ID()]
		if !ok || g.arity != t.NumArgs() {
			return false
		}
		for _, arg := range t.Args() {
			if !r.known(arg) {
				return false
			}
		}
		return true
	}
}

// Decode decodes data as t. Raw yields data itself, as a []byte.
// Errors are of type *DecodeError.
func (r *Registry) Decode(data []byte, t typeinfo.Type) (any, error) {
	switch t.Kind() {
	case typeinfo.KindRaw:
		return data, nil
	case typeinfo.KindSimple:
		r.lock.RLock()
		fn, ok := r.simple[t.ID()]
		r.lock.RUnlock()
		if !ok {
			return nil, &DecodeError{Type: t, Err: ErrUnknownType}
		}
		v, err := fn(data)
		if err != nil {
			return nil, wrapDecode(t, err)
		}
		return v, nil
	default:
		r.lock.RLock()
		g, ok := r.generic[t.ID()]
		r.lock.RUnlock()
		if !ok {
			return nil, &DecodeError{Type: t, Err: ErrUnknownType}
		}
		if g.arity != t.NumArgs() {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("want %d type arguments, have %d", g.arity, t.NumArgs())}
		}
		v, err := g.fn(r, data, t.Args())
		if err != nil {
			return nil, wrapDecode(t, err)
		}
		return v, nil
	}
}

// A DecodeError reports a failure to decode a value of Type. When the
// failure was in a nested value, Err wraps that value's *DecodeError.
type DecodeError struct {
	Type typeinfo.Type
	Err  error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("%sdecode %s: %s", prefix, err.Type, strings.ReplaceAll(err.Err.Error(), prefix, ""))
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

func wrapDecode(t typeinfo.Type, err error) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Type.Equal(t) {
		return err
	}
	return &DecodeError{Type: t, Err: err}
}
