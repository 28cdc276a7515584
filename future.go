// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"context"
	"net/url"
	"sync"
)

// A Future is the pending outcome of an Execute call. It completes
// exactly once, with either an *Envelope or an error.
type Future struct {
	method string
	url    string
	done   chan struct{}
	once   sync.Once
	env    *Envelope
	err    error
}

// newFuture returns a pending Future for a call to the given method
// and redacted URL.
func newFuture(method, url string) *Future {
	return &Future{method: method, url: url, done: make(chan struct{})}
}

// Done returns a channel closed when the outcome is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the call completes and returns its outcome.
func (f *Future) Result() (*Envelope, error) {
	<-f.done
	return f.env, f.err
}

// Await is like Result but gives up when ctx is done, returning a
// *TransportError wrapping ctx.Err(). Giving up does not cancel the
// call; cancel the context passed to Execute for that.
func (f *Future) Await(ctx context.Context) (*Envelope, error) {
	select {
	case <-f.done:
		return f.env, f.err
	case <-ctx.Done():
		return nil, &TransportError{
			Method: f.method,
			URL:    f.url,
			Err:    &url.Error{Op: urlErrorOp(f.method), URL: f.url, Err: ctx.Err()},
		}
	}
}

func (f *Future) complete(env *Envelope, err error) {
	f.once.Do(func() {
		f.env, f.err = env, err
		close(f.done)
	})
}
