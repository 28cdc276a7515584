// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry decides whether a failed attempt in a plan execution
// is retried, and how long to wait first.
//
// A Policy pairs a Decider with a Waiter:
//
//	decider := retry.Times(3).
//		And(retry.Before(10 * time.Second)).
//		And(retry.StatusCode(429, 503).Or(retry.TransientErr))
//	waiter := retry.NewRetryAfterWaiter(
//		retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now()),
//		15*time.Second)
//	policy := retry.NewPolicy(decider, waiter)
//
// NewRetryAfterWaiter understands the Retry-After header and the
// X-RateLimit-Reset header TMDb sends with a 429 response, so a
// rate-limited request waits out the window rather than hammering the
// API.
package retry
