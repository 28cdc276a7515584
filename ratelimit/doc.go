// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package ratelimit paces requests sent to TMDb.

A Doer sits between a tmdbx.Client and the http.Client. It spaces
requests with a token bucket and, once TMDb answers 429 Too Many
Requests, holds back every request until the time the response
advertised. The 429 response itself is passed through so the retry
policy can decide whether to try again:

	d := ratelimit.New(&http.Client{}, 4, 1, logger)
	cl := &tmdbx.Client{HTTPDoer: d}
*/
package ratelimit
