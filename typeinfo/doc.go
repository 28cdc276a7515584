// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package typeinfo describes the shape a response body should be
// decoded into.
//
// A Type is one of three closed variants. Raw means "do not decode, hand
// back the bytes". Simple names a single registered type by its
// identifier. Generic names a registered type constructor together with
// its type arguments, for example a paginated list of movies:
//
//	typeinfo.Generic("page", typeinfo.Simple("movie"))
//
// Types carry no behaviour of their own. Package codec keeps the
// dispatch table mapping identifiers to decoders.
package typeinfo
