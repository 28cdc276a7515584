// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package tmdb is a small TMDb client built on the tmdbx adapter.

A Client prefixes request paths with the API version, adds the API key
to every API request, and turns error payloads into *ErrorResponseError
values. It knows a handful of endpoints; Do reaches the others:

	c, err := tmdb.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()
	company, err := c.Company(ctx, 2)
*/
package tmdb
