// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package tmdbx is an HTTP request adapter for The Movie Database (TMDb)
API and similar JSON services.

An Adapter takes a transport-agnostic request.Descriptor and a
typeinfo.Type describing the wanted response shape, and turns them into
an HTTP call:

	a, err := tmdbx.NewAdapter(tmdbx.Config{
		BaseURL: "https://api.themoviedb.org",
	})
	...
	d := &request.Descriptor{
		Method: request.GET,
		URL:    "/3/company/{id}",
		Vars:   map[string]any{"id": 2},
		Query:  request.Query{}.Add("api_key", key),
	}
	env, err := a.Do(ctx, d, typeinfo.Simple("company"))

The adapter expands URI placeholders, encodes the query, negotiates
Accept and Content-Type, and maps the response into an Envelope. A 200
response is decoded by the codec. Any other status yields an
*ErrorPayload, read either from a TMDb JSON error document or, failing
that, from the first HTML heading of the body. Execute is the
asynchronous form of Do and returns a Future.

Underneath the adapter sits Client, a retrying transport that executes
request.Plans over any HTTPDoer:

	client := &tmdbx.Client{
		HTTPDoer:      &http.Client{Transport: transport},
		RetryPolicy:   retry.DefaultPolicy,
		TimeoutPolicy: timeout.Fixed(3 * time.Second),
		Handlers:      handlers,
	}

Client fires the events listed under Event as each plan proceeds.
Handlers installed in a HandlerGroup can hook them; LogHandler logs
them with zerolog and package metrics records them in Prometheus.

	handlers := &tmdbx.HandlerGroup{}
	handlers.PushBackAll(tmdbx.LogHandler(logger))
*/
package tmdbx
