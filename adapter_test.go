// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/tmdbx/cache"
	"github.com/gogama/tmdbx/codec"
	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/retry"
	"github.com/gogama/tmdbx/typeinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type company struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Headquarters  string `json:"headquarters"`
	OriginCountry string `json:"origin_country"`
}

const companyJSON = `{"description":"","headquarters":"Burbank, California","homepage":"https://thewaltdisneycompany.com/","id":2,"logo_path":"/wdyoUGBhAdGO0ClzWPi0v7pZb98.png","name":"Walt Disney Pictures","origin_country":"US","parent_company":null}`

func testRegistry() *codec.Registry {
	r := codec.NewRegistry()
	codec.MustRegister[company](r, "company")
	return r
}

func TestNewAdapter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a, err := NewAdapter(Config{BaseURL: "https://api.themoviedb.org/"})
		require.NoError(t, err)
		assert.Equal(t, "https://api.themoviedb.org", a.BaseURL())
		assert.IsType(t, &Client{}, a.doer)
		assert.IsType(t, &codec.JSON{}, a.codec)
		assert.Equal(t, DefaultCacheTTL, a.cacheTTL)
		assert.Equal(t, DefaultUserAgent, a.userAgent)
		assert.Nil(t, a.cache)
	})
	t.Run("relative", func(t *testing.T) {
		_, err := NewAdapter(Config{BaseURL: "/3"})
		assert.Error(t, err)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := NewAdapter(Config{})
		assert.Error(t, err)
	})
	t.Run("unparseable", func(t *testing.T) {
		_, err := NewAdapter(Config{BaseURL: "http://[::1"})
		assert.Error(t, err)
	})
}

func TestAdapter(t *testing.T) {
	t.Run("decode", testAdapterDecode)
	t.Run("error documents", testAdapterErrorDocuments)
	t.Run("raw", testAdapterRaw)
	t.Run("caller errors", testAdapterCallerErrors)
	t.Run("headers", testAdapterHeaders)
	t.Run("decode failure", testAdapterDecodeFailure)
	t.Run("transport error", testAdapterTransportError)
	t.Run("caller gives up", testAdapterCallerGivesUp)
	t.Run("cache fallback", testAdapterCacheFallback)
	t.Run("concurrent", testAdapterConcurrent)
	t.Run("panic", testAdapterPanic)
	t.Run("close", testAdapterClose)
}

func testAdapterDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/company/2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json;charset=utf-8")
		_, _ = io.WriteString(w, companyJSON)
	}))
	defer server.Close()

	a, err := NewAdapter(Config{BaseURL: server.URL, Codec: codec.NewJSON(testRegistry())})
	require.NoError(t, err)

	d := request.Get("/{api}/company/{id}").WithVar("api", 3).WithVar("id", 2)
	env, err := a.Do(context.Background(), d, typeinfo.Simple("company"))
	require.NoError(t, err)
	require.True(t, env.OK())
	assert.False(t, env.Cached)
	assert.Equal(t, "application/json;charset=utf-8", env.Header.Get("Content-Type"))
	c, ok := env.Body.(company)
	require.True(t, ok)
	assert.Equal(t, 2, c.ID)
	assert.Equal(t, "Walt Disney Pictures", c.Name)
	assert.Equal(t, "Burbank, California", c.Headquarters)
	assert.Equal(t, "US", c.OriginCountry)
}

func testAdapterErrorDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/company/0":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}`)
		case "/3/company/1":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key.","success":false}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "<html><head><title>404</title></head><body><h1>Not Found</h1></body></html>")
		}
	}))
	defer server.Close()

	a, err := NewAdapter(Config{BaseURL: server.URL, Codec: codec.NewJSON(testRegistry())})
	require.NoError(t, err)

	testCases := []struct {
		id      int
		status  int
		code    int
		message string
	}{
		{0, 404, 34, "The resource you requested could not be found."},
		{1, 401, 7, "Invalid API key: You must be granted a valid key."},
		{9, 404, 404, "Not Found"},
	}
	for _, testCase := range testCases {
		t.Run(fmt.Sprintf("company %d", testCase.id), func(t *testing.T) {
			d := request.Get("/3/company/{id}").WithVar("id", testCase.id)
			env, err := a.Do(context.Background(), d, typeinfo.Simple("company"))
			require.NoError(t, err)
			assert.Equal(t, testCase.status, env.Status)
			assert.False(t, env.OK())
			p := env.ErrorPayload()
			require.NotNil(t, p)
			assert.Equal(t, testCase.status, p.Status)
			assert.Equal(t, testCase.code, p.Code)
			assert.Equal(t, testCase.message, p.Message)
			assert.Nil(t, p.Cause)
		})
	}
}

func testAdapterRaw(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0xd}
	var accept atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept.Store(r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer server.Close()

	spy := newMockCodec(t)
	a, err := NewAdapter(Config{BaseURL: server.URL, Codec: spy})
	require.NoError(t, err)

	env, err := a.Do(context.Background(), request.Get("/t/p/w92/logo.png"), typeinfo.Raw())
	require.NoError(t, err)
	assert.True(t, env.OK())
	b, ok := env.Bytes()
	require.True(t, ok)
	assert.Equal(t, png, b)
	assert.Equal(t, "*/*", accept.Load())
	spy.AssertNotCalled(t, "Decode", mock.Anything, mock.Anything)
	spy.AssertNotCalled(t, "Encode", mock.Anything)
}

func testAdapterCallerErrors(t *testing.T) {
	doer := newMockDoer(t)
	a, err := NewAdapter(Config{BaseURL: "https://api.themoviedb.org", Doer: doer})
	require.NoError(t, err)
	ty := typeinfo.Simple(codec.Any)

	t.Run("missing var", func(t *testing.T) {
		f, err := a.Execute(context.Background(), request.Get("/3/company/{id}"), ty)
		assert.Nil(t, f)
		assert.ErrorIs(t, err, ErrMissingVar)
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "id", ce.Var)
	})
	t.Run("nil descriptor", func(t *testing.T) {
		_, err := a.Execute(context.Background(), nil, ty)
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "describe", ce.Op)
	})
	t.Run("nil context", func(t *testing.T) {
		var ctx context.Context
		_, err := a.Execute(ctx, request.Get("/3/x"), ty)
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "describe", ce.Op)
	})
	t.Run("bad method", func(t *testing.T) {
		_, err := a.Execute(context.Background(), &request.Descriptor{Method: "PATCH", URL: "/3/x"}, ty)
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "describe", ce.Op)
	})
	t.Run("unencodable body", func(t *testing.T) {
		_, err := a.Execute(context.Background(), request.Post("/3/x", badJSON{}), ty)
		var ce *CallerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "encode", ce.Op)
	})

	doer.AssertNotCalled(t, "Do", mock.Anything)
}

func testAdapterHeaders(t *testing.T) {
	doer := newMockDoer(t)
	a, err := NewAdapter(Config{BaseURL: "https://api.themoviedb.org", Doer: doer, UserAgent: "test/1"})
	require.NoError(t, err)

	t.Run("post json", func(t *testing.T) {
		doer.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "POST" &&
				p.URL.String() == "https://api.themoviedb.org/3/movie/550/rating?api_key=k" &&
				p.Header.Get("Accept") == MediaTypeJSON &&
				p.Header.Get("Content-Type") == MediaTypeJSON &&
				p.Header.Get("User-Agent") == "test/1" &&
				string(p.Body) == `{"value":8.5}`
		})).Return(execution(201, `{"status_code":1,"status_message":"Success."}`), nil).Once()

		d := request.Post("/3/movie/{id}/rating", map[string]float64{"value": 8.5}).
			WithVar("id", 550).
			WithQuery("api_key", "k")
		env, err := a.Do(context.Background(), d, typeinfo.Simple(codec.Any))
		require.NoError(t, err)
		assert.Equal(t, 201, env.Status)
		p := env.ErrorPayload()
		require.NotNil(t, p)
		assert.Equal(t, "Success.", p.Message)
		assert.Equal(t, 1, p.Code)
	})
	t.Run("post bytes", func(t *testing.T) {
		doer.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Header.Get("Content-Type") == MediaTypeBinary && string(p.Body) == "abc"
		})).Return(execution(200, `true`), nil).Once()

		env, err := a.Do(context.Background(), request.Post("/3/x", []byte("abc")), typeinfo.Simple(codec.Bool))
		require.NoError(t, err)
		assert.Equal(t, true, env.Body)
	})
	t.Run("get has no content type", func(t *testing.T) {
		doer.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			_, ok := p.Header["Content-Type"]
			return p.Method == "GET" && !ok && p.Body == nil
		})).Return(execution(200, `"x"`), nil).Once()

		env, err := a.Do(context.Background(), request.Get("/3/y"), typeinfo.Simple(codec.String))
		require.NoError(t, err)
		assert.Equal(t, "x", env.Body)
	})

	doer.AssertExpectations(t)
}

func testAdapterDecodeFailure(t *testing.T) {
	doer := newMockDoer(t)
	doer.On("Do", mock.Anything).Return(execution(200, `<h1>Maintenance</h1>`), nil).Once()
	a, err := NewAdapter(Config{BaseURL: "https://api.themoviedb.org", Doer: doer, Codec: codec.NewJSON(testRegistry())})
	require.NoError(t, err)

	env, err := a.Do(context.Background(), request.Get("/3/company/2"), typeinfo.Simple("company"))
	require.NoError(t, err)
	assert.Equal(t, 200, env.Status)
	assert.False(t, env.OK())
	p := env.ErrorPayload()
	require.NotNil(t, p)
	assert.Equal(t, "Maintenance", p.Message)
	assert.Equal(t, 200, p.Status)
	assert.Equal(t, 200, p.Code)
	var de *codec.DecodeError
	assert.ErrorAs(t, p, &de)
}

func testAdapterTransportError(t *testing.T) {
	doer := newMockDoer(t)
	cause := &url.Error{Op: "Get", URL: "https://api.themoviedb.org/3/x?api_key=secret", Err: syscall.ECONNREFUSED}
	doer.On("Do", mock.Anything).Return(nil, cause).Once()
	a, err := NewAdapter(Config{BaseURL: "https://api.themoviedb.org", Doer: doer})
	require.NoError(t, err)

	env, err := a.Do(context.Background(), request.Get("/3/x").WithQuery("api_key", "secret"), typeinfo.Raw())
	assert.Nil(t, env)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "GET", te.Method)
	assert.Equal(t, "https://api.themoviedb.org/3/x?api_key=REDACTED", te.URL)
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	assert.Same(t, cause, te.Err)
	assert.NotContains(t, err.Error(), "secret")
	assert.Contains(t, err.Error(), "api_key=REDACTED")
}

func testAdapterCallerGivesUp(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	a, err := NewAdapter(Config{BaseURL: server.URL, Doer: &Client{RetryPolicy: retry.Never}})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	env, err := a.Do(ctx, request.Get("/3/x").WithQuery("api_key", "secret"), typeinfo.Raw())
	assert.Nil(t, env)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "GET", te.Method)
	assert.Equal(t, server.URL+"/3/x?api_key=REDACTED", te.URL)
	assert.True(t, te.Timeout())
	assert.NotContains(t, err.Error(), "secret")
}

func testAdapterCacheFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, companyJSON)
	}))

	store := cache.NewMemoryStore(0)
	a, err := NewAdapter(Config{
		BaseURL: server.URL,
		Doer:    &Client{RetryPolicy: retry.Never},
		Codec:   codec.NewJSON(testRegistry()),
		Cache:   store,
	})
	require.NoError(t, err)
	d := request.Get("/3/company/{id}").WithVar("id", 2)
	ty := typeinfo.Simple("company")

	env, err := a.Do(context.Background(), d, ty)
	require.NoError(t, err)
	assert.False(t, env.Cached)
	assert.Equal(t, 1, store.Len())

	server.Close()

	env, err = a.Do(context.Background(), d, ty)
	require.NoError(t, err)
	assert.True(t, env.Cached)
	assert.True(t, env.OK())
	assert.Equal(t, "Walt Disney Pictures", env.Body.(company).Name)

	_, err = a.Do(context.Background(), d.WithVar("id", 3), ty)
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func testAdapterConcurrent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, r.URL.Query().Get("n"))
	}))
	defer server.Close()

	a, err := NewAdapter(Config{BaseURL: server.URL})
	require.NoError(t, err)

	const n = 20
	results := make([]any, n)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			env, err := a.Do(ctx, request.Get("/echo").WithQuery("n", i), typeinfo.Simple(codec.Int))
			if err != nil {
				return err
			}
			results[i] = env.Body
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for i := 0; i < n; i++ {
		assert.Equal(t, i, results[i])
	}
	assert.Equal(t, int32(n), atomic.LoadInt32(&calls))
}

func testAdapterPanic(t *testing.T) {
	doer := newMockDoer(t)
	doer.On("Do", mock.Anything).Run(func(mock.Arguments) { panic("boom") }).Once()
	a, err := NewAdapter(Config{BaseURL: "https://api.themoviedb.org", Doer: doer})
	require.NoError(t, err)

	f, err := a.Execute(context.Background(), request.Get("/3/x"), typeinfo.Raw())
	require.NoError(t, err)
	env, err := f.Result()
	assert.Nil(t, env)
	assert.EqualError(t, err, "tmdbx: panic during call: boom")
}

func testAdapterClose(t *testing.T) {
	httpDoer := newMockHTTPDoerWithCloseIdleConnections(t)
	httpDoer.On("CloseIdleConnections").Return().Once()
	a, err := NewAdapter(Config{BaseURL: "https://api.themoviedb.org", Doer: &Client{HTTPDoer: httpDoer}})
	require.NoError(t, err)

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
	httpDoer.AssertExpectations(t)

	f, err := a.Execute(context.Background(), request.Get("/3/x"), typeinfo.Raw())
	assert.Nil(t, f)
	assert.Same(t, ErrClosed, err)
	_, err = a.Do(context.Background(), request.Get("/3/x"), typeinfo.Raw())
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestRedactErr(t *testing.T) {
	plain := errors.New("plain")
	assert.Same(t, plain, redactErr(plain))

	err := redactErr(&url.Error{Op: "Get", URL: "https://api.themoviedb.org/3/x?api_key=secret&a=1", Err: syscall.ECONNRESET})
	assert.Equal(t, `Get "https://api.themoviedb.org/3/x?a=1&api_key=REDACTED": connection reset by peer`, err.Error())
	assert.ErrorIs(t, err, syscall.ECONNRESET)

	bad := &url.Error{Op: "Get", URL: "%zz", Err: syscall.ECONNRESET}
	assert.Same(t, bad, redactErr(bad))
}

func execution(status int, body string) *request.Execution {
	return &request.Execution{
		Response: &http.Response{StatusCode: status, Header: http.Header{}},
		Body:     []byte(body),
		End:      time.Now(),
	}
}

type badJSON struct{}

func (badJSON) MarshalJSON() ([]byte, error) {
	return nil, errors.New("cannot marshal")
}

type mockDoer struct {
	mock.Mock
}

func newMockDoer(t *testing.T) *mockDoer {
	m := &mockDoer{}
	m.Test(t)
	return m
}

func (m *mockDoer) Do(p *request.Plan) (*request.Execution, error) {
	args := m.Called(p)
	err := args.Error(1)
	if e, ok := args.Get(0).(*request.Execution); ok {
		return e, err
	}
	return nil, err
}

type mockCodec struct {
	mock.Mock
}

func newMockCodec(t *testing.T) *mockCodec {
	m := &mockCodec{}
	m.Test(t)
	return m
}

func (m *mockCodec) Encode(v any) ([]byte, error) {
	args := m.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockCodec) Decode(data []byte, t typeinfo.Type) (any, error) {
	args := m.Called(data, t)
	return args.Get(0), args.Error(1)
}
