// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"testing"

	"github.com/gogama/tmdbx/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTemplate(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		vars     map[string]any
		want     string
	}{
		{"no placeholders", "/3/configuration", nil, "/3/configuration"},
		{"one", "/3/company/{id}", map[string]any{"id": 2}, "/3/company/2"},
		{"repeated", "/{v}/x/{v}", map[string]any{"v": "a"}, "/a/x/a"},
		{"several", "/{api}/movie/{movie_id}/images", map[string]any{"api": 3, "movie_id": int64(550)}, "/3/movie/550/images"},
		{"unescaped", "/{path}", map[string]any{"path": "a b/c"}, "/a b/c"},
		{"not a placeholder", "/{}/{a-b}", nil, "/{}/{a-b}"},
		{"unused var", "/x", map[string]any{"y": 1}, "/x"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			s, err := ExpandTemplate(testCase.template, testCase.vars)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, s)
		})
	}

	t.Run("missing var", func(t *testing.T) {
		s, err := ExpandTemplate("/3/company/{id}/{other}", map[string]any{"other": 1})
		assert.Empty(t, s)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingVar)
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "expand", ce.Op)
		assert.Equal(t, "id", ce.Var)
		assert.Equal(t, `tmdbx: expand "id": no value specified for URI variable`, err.Error())
	})
	t.Run("unstringable var", func(t *testing.T) {
		_, err := ExpandTemplate("/{id}", map[string]any{"id": struct{}{}})
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "id", ce.Var)
		assert.NotErrorIs(t, err, ErrMissingVar)
	})
}

func TestEncodeQuery(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s, err := EncodeQuery(nil)
		require.NoError(t, err)
		assert.Empty(t, s)
	})
	t.Run("lists and order", func(t *testing.T) {
		q := request.Query{}.Add("with_id", 1, 2).Add("lang", "en")
		s, err := EncodeQuery(q)
		require.NoError(t, err)
		assert.Equal(t, "with_id=1,2&lang=en", s)
	})
	t.Run("reserved characters", func(t *testing.T) {
		q := request.Query{}.Add("query", "fight club&more").Add("a=b", "x/y?")
		s, err := EncodeQuery(q)
		require.NoError(t, err)
		assert.Equal(t, "query=fight+club%26more&a%3Db=x%2Fy%3F", s)
	})
	t.Run("no values", func(t *testing.T) {
		s, err := EncodeQuery(request.Query{}.Add("flag"))
		require.NoError(t, err)
		assert.Equal(t, "flag=", s)
	})
	t.Run("bad value", func(t *testing.T) {
		_, err := EncodeQuery(request.Query{}.Add("x", []int{1}))
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "query", ce.Op)
		assert.Equal(t, "x", ce.Var)
	})
}

func TestBuildURL(t *testing.T) {
	const base = "https://api.themoviedb.org"
	t.Run("slash added", func(t *testing.T) {
		s, err := BuildURL(base, "3/company/{id}", map[string]any{"id": 2}, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://api.themoviedb.org/3/company/2", s)
	})
	t.Run("slash kept", func(t *testing.T) {
		s, err := BuildURL(base, "/3/company/{id}", map[string]any{"id": 2}, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://api.themoviedb.org/3/company/2", s)
	})
	t.Run("query", func(t *testing.T) {
		q := request.Query{}.Add("api_key", "k")
		s, err := BuildURL(base, "/3/x", nil, q)
		require.NoError(t, err)
		assert.Equal(t, "https://api.themoviedb.org/3/x?api_key=k", s)
	})
	t.Run("query appended to template query", func(t *testing.T) {
		q := request.Query{}.Add("b", 2)
		s, err := BuildURL(base, "/3/x?a=1", nil, q)
		require.NoError(t, err)
		assert.Equal(t, "https://api.themoviedb.org/3/x?a=1&b=2", s)
	})
	t.Run("missing var", func(t *testing.T) {
		_, err := BuildURL(base, "/3/company/{id}", nil, nil)
		assert.ErrorIs(t, err, ErrMissingVar)
	})
	t.Run("not absolute", func(t *testing.T) {
		_, err := BuildURL("", "/3/x", nil, nil)
		assert.ErrorIs(t, err, ErrMalformedURL)
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "url", ce.Op)
	})
	t.Run("unparseable", func(t *testing.T) {
		_, err := BuildURL(base, "/{v}", map[string]any{"v": "%zz"}, nil)
		assert.ErrorIs(t, err, ErrMalformedURL)
	})
}
