// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"syscall"

	"golang.org/x/net/http2"
)

// A Category is the transience category of an error, as reported by
// Categorize.
//
// Not means a retry is very unlikely to succeed. Every other category
// means a retry has some prospect of success.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout: the error, or one of
	// its wrapped causes, has a Timeout method reporting true.
	Timeout
	// ConnRefused indicates syscall.ECONNREFUSED. The remote service
	// may be restarting and not yet listening.
	ConnRefused
	// ConnReset indicates syscall.ECONNRESET, typically a load
	// balancer or a service going down mid-response.
	ConnReset
	// StreamRefused indicates an HTTP/2 RST_STREAM with the
	// REFUSED_STREAM code. The server guarantees it did no processing.
	StreamRefused
	// GoAway indicates the server sent an HTTP/2 GOAWAY frame with no
	// error, i.e. it is shutting the connection down gracefully.
	GoAway
)

var categoryNames = [...]string{
	Not:           "not",
	Timeout:       "timeout",
	ConnRefused:   "conn_refused",
	ConnReset:     "conn_reset",
	StreamRefused: "stream_refused",
	GoAway:        "go_away",
}

// String returns a short snake_case label, suitable for metrics.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of err. A nil error and a
// non-transient error both produce Not.
//
// Categorize looks through wrapped causes, not just err itself. It
// never consults a Temporary method.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	var streamErr http2.StreamError
	if errors.As(err, &streamErr) && streamErr.Code == http2.ErrCodeRefusedStream {
		return StreamRefused
	}

	var goAway http2.GoAwayError
	if errors.As(err, &goAway) && goAway.ErrCode == http2.ErrCodeNo {
		return GoAway
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
