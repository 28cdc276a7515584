// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the request-side types used by tmdbx.

Descriptor is the transport-agnostic description of a call: a method, a
URL template with {name} placeholders, the values for those
placeholders, an ordered list of query parameters, and an optional body.
Callers build Descriptors; the tmdbx.Adapter turns them into concrete
HTTP calls.

	d := &request.Descriptor{
		Method: request.GET,
		URL:    "/3/company/{id}",
		Vars:   map[string]any{"id": 2},
		Query:  request.Query{}.Add("language", "en"),
	}

Plan and Execution sit one level lower. A Plan is a concrete, absolute
HTTP request with a pre-buffered body, and an Execution tracks the state
of running a Plan through the retrying transport: attempts, timeouts,
the last response, and its fully read body. Timeout and retry policies
and event handlers all receive the Execution.

A Plan carries a context which bounds the whole execution. Its deadline
is separate from the per-attempt deadlines set by the client's
timeout.Policy, so an attempt may fail from either one. Attempt timeouts
may be retried; plan timeouts are final.
*/
package request
