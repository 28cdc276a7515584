// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package typeinfo

import "strings"

// A Kind identifies which variant a Type is.
type Kind int

const (
	// KindRaw marks a Type whose body is returned as raw bytes.
	KindRaw Kind = iota
	// KindSimple marks a Type naming one registered type.
	KindSimple
	// KindGeneric marks a Type naming a registered type constructor
	// applied to type arguments.
	KindGeneric
)

var kindNames = []string{"Raw", "Simple", "Generic"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// A Type describes the expected shape of a decoded response body. The
// zero value is Raw.
//
// Types are immutable values and are safe to share between goroutines.
type Type struct {
	kind Kind
	id   string
	args []Type
}

// Raw returns the Type meaning "no decoding".
func Raw() Type {
	return Type{kind: KindRaw}
}

// Simple returns the Type for the registered type id.
func Simple(id string) Type {
	if id == "" {
		panic("tmdbx/typeinfo: empty type id")
	}
	return Type{kind: KindSimple, id: id}
}

// Generic returns the Type for the registered type constructor id
// applied to args. At least one argument is required; a constructor
// with no arguments is just a Simple type.
func Generic(id string, args ...Type) Type {
	if id == "" {
		panic("tmdbx/typeinfo: empty type id")
	}
	if len(args) == 0 {
		panic("tmdbx/typeinfo: generic type " + id + " needs type arguments")
	}
	a := make([]Type, len(args))
	copy(a, args)
	return Type{kind: KindGeneric, id: id, args: a}
}

// Kind returns the variant of t.
func (t Type) Kind() Kind {
	return t.kind
}

// IsRaw reports whether t is the Raw type.
func (t Type) IsRaw() bool {
	return t.kind == KindRaw
}

// ID returns the type identifier, or the empty string for Raw.
func (t Type) ID() string {
	return t.id
}

// Args returns a copy of the type arguments of a Generic type.
func (t Type) Args() []Type {
	if len(t.args) == 0 {
		return nil
	}
	a := make([]Type, len(t.args))
	copy(a, t.args)
	return a
}

// Arg returns the i-th type argument. It panics if i is out of range.
func (t Type) Arg(i int) Type {
	return t.args[i]
}

// NumArgs returns the number of type arguments.
func (t Type) NumArgs() int {
	return len(t.args)
}

// Equal reports whether t and u describe the same shape.
func (t Type) Equal(u Type) bool {
	if t.kind != u.kind || t.id != u.id || len(t.args) != len(u.args) {
		return false
	}
	for i := range t.args {
		if !t.args[i].Equal(u.args[i]) {
			return false
		}
	}
	return true
}

// String renders t as "raw", "movie" or "page<movie>".
func (t Type) String() string {
	switch t.kind {
	case KindRaw:
		return "raw"
	case KindSimple:
		return t.id
	}
	var b strings.Builder
	b.WriteString(t.id)
	b.WriteByte('<')
	for i, a := range t.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}
