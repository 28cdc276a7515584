// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a MemoryStore created with a non-positive
// size.
const DefaultMaxEntries = 1024

// MemoryStore is an in-process Store. When full, it drops expired
// entries first and then the entry closest to expiry.
type MemoryStore struct {
	lock    sync.Mutex
	entries map[string]memoryEntry
	max     int
	now     func() time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryStore returns a MemoryStore holding at most maxEntries
// values.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		max:     maxEntries,
		now:     time.Now,
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implements Store. The value is copied.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	var expires time.Time
	if ttl > 0 {
		expires = s.now().Add(ttl)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.entries[key]; !ok && len(s.entries) >= s.max {
		s.evict()
	}
	s.entries[key] = memoryEntry{value: v, expires: expires}
	return nil
}

// Len returns the number of stored entries, including expired ones not
// yet dropped.
func (s *MemoryStore) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) evict() {
	now := s.now()
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
		}
	}
	if len(s.entries) < s.max {
		return
	}
	var victim string
	var soonest time.Time
	first := true
	for k, e := range s.entries {
		if first || e.before(soonest) {
			victim, soonest, first = k, e.expires, false
		}
	}
	delete(s.entries, victim)
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// before orders entries by expiry, with never-expiring entries last.
func (e memoryEntry) before(t time.Time) bool {
	if e.expires.IsZero() {
		return false
	}
	return t.IsZero() || e.expires.Before(t)
}
