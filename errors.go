// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"errors"
	"strconv"

	"github.com/gogama/tmdbx/transient"
)

var (
	// ErrClosed is returned by Execute and Do after Close.
	ErrClosed = errors.New("tmdbx: adapter closed")

	// ErrMissingVar is wrapped by the *CallerError reported when a URL
	// template names a variable the descriptor has no value for.
	ErrMissingVar = errors.New("no value specified for URI variable")

	// ErrMalformedURL is wrapped by the *CallerError reported when the
	// expanded URL does not parse as an absolute URL.
	ErrMalformedURL = errors.New("malformed URL")
)

// A CallerError reports a mistake in the request descriptor. It is
// detected before any network I/O and returned synchronously.
//
// Op is the step that failed: "describe", "expand", "query", "url" or
// "encode". Var names the offending URI variable or query parameter,
// if any.
type CallerError struct {
	Op  string
	Var string
	Err error
}

func (err *CallerError) Error() string {
	msg := "tmdbx: " + err.Op
	if err.Var != "" {
		msg += " " + strconv.Quote(err.Var)
	}
	return msg + ": " + err.Err.Error()
}

func (err *CallerError) Unwrap() error {
	return err.Err
}

// A TransportError reports that no HTTP response could be obtained:
// connection failure, timeout, cancellation. Err is the transport's
// *url.Error. URL and the message have the api_key redacted, but Err
// is left as received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (err *TransportError) Error() string {
	return "tmdbx: transport: " + redactErr(err.Err).Error()
}

func (err *TransportError) Unwrap() error {
	return err.Err
}

// Timeout reports whether the failure was a timeout of the attempt or
// of the whole call.
func (err *TransportError) Timeout() bool {
	return err.Category() == transient.Timeout
}

// Category returns the transience category of the failure.
func (err *TransportError) Category() transient.Category {
	return transient.Categorize(err.Err)
}
