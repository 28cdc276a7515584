// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/tmdbx/request"
)

// A Policy chooses the timeout for the next attempt of a plan
// execution. Implementations must be safe for concurrent use.
type Policy interface {
	// Timeout returns the timeout for the next attempt, given the
	// current execution state.
	Timeout(e *request.Execution) time.Duration
}

// DefaultPolicy sets a fixed timeout of 3 seconds on each attempt.
// TMDb answers well inside that bound when healthy.
var DefaultPolicy Policy = Fixed(3 * time.Second)

// Infinite never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed returns a policy that uses d for every attempt. A non-positive
// d means Infinite.
func Fixed(d time.Duration) Policy {
	if d <= 0 {
		d = 1<<63 - 1
	}
	return policy{d}
}

// Adaptive returns a policy that uses usual unless the previous attempt
// timed out. After the first timeout in an execution it uses after[0],
// after the second after[1], and so on, sticking at the last element.
//
//	p := Adaptive(2*time.Second, 5*time.Second, 10*time.Second)
//
// Use Adaptive when the remote service has occasional slow responses
// that a quick retry cures, but also goes through slow bursts where a
// short timeout would fail every attempt.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make(policy, 1, 1+len(after))
	p[0] = usual
	return append(p, after...)
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return p[0]
	}

	return p[min(e.AttemptTimeouts, len(p)-1)]
}
