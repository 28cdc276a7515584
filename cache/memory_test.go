// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(3)
	s.now = func() time.Time { return now }

	t.Run("miss", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "nope")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})
	t.Run("hit copies value", func(t *testing.T) {
		b := []byte("foo")
		require.NoError(t, s.Set(ctx, "a", b, time.Minute))
		b[0] = 'x'
		v, ok, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("foo"), v)
	})
	t.Run("expiry", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "b", []byte("bar"), time.Second))
		now = now.Add(time.Second)
		_, ok, err := s.Get(ctx, "b")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, _ = s.Get(ctx, "a")
		assert.True(t, ok)
	})
	t.Run("eviction", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "forever", []byte("1"), 0))
		require.NoError(t, s.Set(ctx, "soon", []byte("2"), 2*time.Second))
		assert.Equal(t, 3, s.Len())
		require.NoError(t, s.Set(ctx, "late", []byte("3"), time.Hour))
		assert.Equal(t, 3, s.Len())
		_, ok, _ := s.Get(ctx, "soon")
		assert.False(t, ok, "entry closest to expiry is evicted")
		_, ok, _ = s.Get(ctx, "forever")
		assert.True(t, ok)
		_, ok, _ = s.Get(ctx, "a")
		assert.True(t, ok)
	})
	t.Run("overwrite does not evict", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "a", []byte("foo2"), time.Minute))
		assert.Equal(t, 3, s.Len())
		v, _, _ := s.Get(ctx, "a")
		assert.Equal(t, []byte("foo2"), v)
	})
}

func TestMemoryStore_Defaults(t *testing.T) {
	assert.Equal(t, DefaultMaxEntries, NewMemoryStore(0).max)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(16)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%20)
			assert.NoError(t, s.Set(ctx, key, []byte(key), time.Minute))
			_, _, err := s.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, s.Len(), 16)
}

func TestPutLookup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	key := Key("GET", "https://api.themoviedb.org/3/company/2?api_key=secret")
	assert.Len(t, key, 64)
	assert.NotContains(t, key, "secret")
	assert.NotEqual(t, key, Key("POST", "https://api.themoviedb.org/3/company/2?api_key=secret"))

	_, ok, err := Lookup(ctx, s, key)
	require.NoError(t, err)
	assert.False(t, ok)

	stored := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	e := &Entry{
		Status: 200,
		Header: map[string][]string{"Content-Type": {"application/json;charset=utf-8"}},
		Body:   []byte(`{"name":"Walt Disney Pictures"}`),
		Stored: stored,
	}
	require.NoError(t, Put(ctx, s, key, e, time.Minute))
	got, ok, err := Lookup(ctx, s, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 200, got.Status)
	assert.Equal(t, "application/json;charset=utf-8", got.Header.Get("Content-Type"))
	assert.Equal(t, e.Body, got.Body)
	assert.True(t, stored.Equal(got.Stored))

	require.NoError(t, s.Set(ctx, "junk", []byte("{"), 0))
	_, ok, err = Lookup(ctx, s, "junk")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "tmdbx/cache: decode entry")
}
