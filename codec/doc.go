// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package codec encodes request bodies and decodes response bodies for
the tmdbx adapter.

Decoding is driven by a typeinfo.Type rather than by a Go type, so the
caller of the adapter can describe the wanted shape as data. A Registry
maps each type identifier to a decode function. Concrete types are
registered with the generic helper Register:

	reg := codec.NewRegistry()
	codec.Register[Company](reg, "company")

after which typeinfo.Simple("company") decodes into a Company value and
typeinfo.Generic("page", typeinfo.Simple("company")) into a Page whose
Results are Company values.

Every new Registry knows the simple types "string", "int", "float",
"bool" and "any", and the generic types "list" (one argument), "map"
(two arguments, the first of which must be "string") and "page" (one
argument).

JSON is the Codec the adapter uses by default. It is built on
github.com/goccy/go-json.
*/
package codec
