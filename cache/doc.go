// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cache stores successful TMDb responses so the adapter can
// fall back on them when the API cannot be reached.
//
// A Store is a byte-oriented key/value store with expiry. MemoryStore
// keeps entries in process; RedisStore shares them through Redis.
// Entries are encoded with github.com/goccy/go-json and keyed by a hash
// of the request method and URL, so API keys in the URL never reach
// the store.
package cache
