// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/transient"
)

// A Decider decides if a retry should be done. Implementations must be
// safe for concurrent use.
type Decider interface {
	Decide(e *request.Execution) bool
}

// DeciderFunc adapts an ordinary function to Decider and adds the
// composition methods And and Or.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of retries DefaultDecider allows, for at
// most three attempts in all.
const DefaultTimes = 2

// DefaultDecider allows up to DefaultTimes retries of Retryable
// attempts.
var DefaultDecider = Times(DefaultTimes).And(Retryable)

// Retryable is true for a transient error or for status 429, 502, 503
// or 504. Combine it with Times to bound the retries.
var Retryable = StatusCode(429, 502, 503, 504).Or(TransientErr)

// TransientErr retries when the attempt error is transient according to
// transient.Categorize. It returns false whenever a response arrived.
var TransientErr DeciderFunc = transientErr

// RateLimited retries when TMDb answered 429 Too Many Requests.
var RateLimited = StatusCode(429)

// Decide calls f(e).
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And returns a decider true when both f and g are. g is not evaluated
// if f returns false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or returns a decider true when either f or g is. g is not evaluated
// if f returns true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times allows up to n retries.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before allows retries until d has elapsed since the execution started.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode allows a retry when the last attempt got a response with
// one of the given status codes.
func StatusCode(ss ...int) DeciderFunc {
	set := make(map[int]struct{}, len(ss))
	for _, s := range ss {
		set[s] = struct{}{}
	}
	return func(e *request.Execution) bool {
		_, ok := set[e.StatusCode()]
		return ok
	}
}

func transientErr(e *request.Execution) bool {
	return transient.Categorize(e.Err) != transient.Not
}
