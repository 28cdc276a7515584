// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies transport errors as transient or not.
// Retry deciders use it to choose which failed attempts to repeat, and
// the metrics and logging handlers use it to label failures.
//
// Besides the socket-level conditions (timeouts, refused and reset
// connections), Categorize recognizes the HTTP/2 errors from
// golang.org/x/net/http2 that indicate a request was never processed:
// a refused stream and a graceful GOAWAY.
package transient
