// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// A Store holds opaque values under string keys. Implementations must
// be safe for concurrent use.
type Store interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// An Entry is a cached HTTP response.
type Entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body"`
	Stored time.Time   `json:"stored"`
}

// Key returns the store key for a request.
func Key(method, url string) string {
	sum := sha256.Sum256([]byte(method + " " + url))
	return hex.EncodeToString(sum[:])
}

// Put encodes e and stores it under key.
func Put(ctx context.Context, s Store, key string, e *Entry, ttl time.Duration) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("tmdbx/cache: encode entry: %w", err)
	}
	return s.Set(ctx, key, data, ttl)
}

// Lookup fetches and decodes the entry under key.
func Lookup(ctx context.Context, s Store, key string) (*Entry, bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var e Entry
	if err = json.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("tmdbx/cache: decode entry: %w", err)
	}
	return &e, true, nil
}
