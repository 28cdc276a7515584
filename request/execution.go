// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/tmdbx/transient"
)

// An Execution is the state of one Plan execution.
//
// The transport creates an Execution when it starts a plan and updates
// it as the plan progresses. Policies and event handlers receive it and
// may attach their own data with SetValue, but should otherwise treat
// its fields as read-only. Modifying Request before it is sent (to add
// a signature, say) is fine.
type Execution struct {
	// Plan is the plan being executed. Never nil.
	Plan *Plan

	// Start is set when the execution starts and never changes after.
	Start time.Time

	// End is zero until the execution ends.
	End time.Time

	// Attempt is the zero-based number of the current attempt. After
	// the execution ends it is the number of the last attempt made.
	Attempt int

	// AttemptTimeouts counts the attempts that ended in an attempt
	// timeout. Plan timeouts are not counted.
	AttemptTimeouts int

	// Request is the HTTP request for the current or last attempt.
	Request *http.Request

	// Response is the response to the most recent attempt, or nil if
	// that attempt failed or is still underway.
	Response *http.Response

	// Err is the error from the most recent attempt. When non-nil it
	// is always a *url.Error. Once the execution ends, Err equals the
	// error returned by the client.
	Err error

	// Body is the fully read response body of the most recent attempt.
	// Body may be non-nil alongside a non-nil Err if the read failed
	// part way; treat it as invalid unless Err is nil.
	Body []byte

	data context.Context
}

// StatusCode returns the status code of the most recent response, or 0
// if there is none.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the headers of the most recent response, or a nil
// header if there is none. The nil header is safe to read.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		return nil
	}

	return e.Response.Header
}

// Duration returns how long the execution has run. It is zero before
// the start and fixed at End minus Start after the end.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return 0
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the execution has ended. Once it returns
// true, the Execution no longer changes.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout indicates whether Err is currently a timeout, either of the
// attempt or of the whole plan.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue stores arbitrary handler data on the execution. Keys follow
// the rules of context.WithValue: non-nil, comparable, and preferably
// of an unexported type.
func (e *Execution) SetValue(key, value any) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the value stored for key, or nil.
func (e *Execution) Value(key any) any {
	if e.data == nil {
		return nil
	}

	return e.data.Value(key)
}
