// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package config loads tmdbx settings from a YAML file, a .env file and
the environment, in increasing order of precedence.

Environment variables use the prefix TMDB_ and replace dots with
underscores, so logging.level is read from TMDB_LOGGING_LEVEL. The API
key is read from TMDB_API_KEY.

A minimal file:

	api:
	  api_key: 0123456789abcdef
	cache:
	  backend: memory
*/
package config
