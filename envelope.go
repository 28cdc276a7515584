// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"net/http"
)

// An Envelope is the outcome of a call that got an HTTP response.
//
// When Status is 200, Body is the decoded value, or the exact response
// bytes for a typeinfo.Raw call. Otherwise Body is an *ErrorPayload. A
// 200 response whose body failed to decode also carries an
// *ErrorPayload, with its Cause set.
type Envelope struct {
	Status int
	Header http.Header
	Body   any

	// Cached is true if the envelope was served from the fallback
	// cache after a transport failure.
	Cached bool
}

// OK reports whether the call succeeded and Body holds the decoded
// value.
func (env *Envelope) OK() bool {
	_, isPayload := env.Body.(*ErrorPayload)
	return env.Status == http.StatusOK && !isPayload
}

// ErrorPayload returns the error payload, or nil if the call succeeded.
func (env *Envelope) ErrorPayload() *ErrorPayload {
	p, _ := env.Body.(*ErrorPayload)
	return p
}

// Bytes returns Body as a byte slice, for typeinfo.Raw calls.
func (env *Envelope) Bytes() ([]byte, bool) {
	b, ok := env.Body.([]byte)
	return b, ok
}
