// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"context"
	"net/http"

	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/typeinfo"
)

// An HTTPDoer sends one HTTP request following the contract of
// http.Client.Do. *http.Client and ratelimit.Doer implement it.
type HTTPDoer interface {
	Do(r *http.Request) (*http.Response, error)
}

// A Doer executes a request plan, retrying as it sees fit, and returns
// the final execution state. Any error returned is a *url.Error, and a
// non-2XX status is not an error. Client implements Doer.
type Doer interface {
	Do(p *request.Plan) (*request.Execution, error)
}

// IdleCloser wraps CloseIdleConnections. If the underlying transport
// supports it, CloseIdleConnections closes idle keep-alive connections
// without interrupting ones in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// An Executor turns request descriptors into HTTP calls. Adapter
// implements Executor.
type Executor interface {
	// Execute starts the call described by d and returns a Future for
	// its outcome. Caller mistakes, such as a missing URI variable,
	// are returned directly and no request is sent.
	Execute(ctx context.Context, d *request.Descriptor, t typeinfo.Type) (*Future, error)
	// Close stops the Executor accepting new calls.
	Close() error
}

var (
	_ Doer     = (*Client)(nil)
	_ Executor = (*Adapter)(nil)
)
