// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gogama/tmdbx/request"
)

// A Waiter says how long to wait before retrying a failed attempt. The
// client only calls it after the Decider has agreed to a retry.
// Implementations must be safe for concurrent use.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultWaiter honours TMDb rate-limit headers for up to 15 seconds,
// and otherwise uses jittered exponential backoff from 250 milliseconds
// to 2 seconds.
var DefaultWaiter = NewRetryAfterWaiter(
	NewExpWaiter(250*time.Millisecond, 2*time.Second, time.Now()),
	15*time.Second)

// NewFixedWaiter returns a Waiter that always waits d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter returns a "full jitter" exponential backoff Waiter. The
// ceiling for attempt n is min(base * 2**n, max) and the wait is a
// random value in [0, ceiling).
//
// Parameter jitter is nil (no jitter, always wait the ceiling), a seed
// (time.Time, int or int64), or a rand.Source or *rand.Rand.
func NewExpWaiter(base, max time.Duration, jitter any) Waiter {
	if base < 1 {
		panic("tmdbx/retry: base must be positive")
	}
	if max < base {
		panic("tmdbx/retry: max must be at least base")
	}
	return &expWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type expWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *expWaiter) Wait(e *request.Execution) time.Duration {
	ceil := w.max
	if e.Attempt < 62 {
		if c := w.base << e.Attempt; c >= w.base && c < w.max {
			ceil = c
		}
	}

	if w.rand == nil {
		return ceil
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

func jitterToRand(jitter any) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("tmdbx/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("tmdbx/retry: invalid jitter type")
	}
	return rand.New(s)
}

// NewRetryAfterWaiter returns a Waiter that honours server-advertised
// retry times and defers to fallback when there are none.
//
// The headers consulted, in order, are Retry-After (delay in seconds,
// or an HTTP date) and X-RateLimit-Reset (Unix time in seconds when the
// rate-limit window resets, to which one second is added for clock
// skew). The wait never exceeds max.
func NewRetryAfterWaiter(fallback Waiter, max time.Duration) Waiter {
	if fallback == nil {
		panic("tmdbx/retry: nil waiter")
	}
	if max < 0 {
		panic("tmdbx/retry: max must not be negative")
	}
	return &retryAfterWaiter{fallback: fallback, max: max, now: time.Now}
}

type retryAfterWaiter struct {
	fallback Waiter
	max      time.Duration
	now      func() time.Time
}

func (w *retryAfterWaiter) Wait(e *request.Execution) time.Duration {
	d, ok := RetryAfter(e.Header(), w.now())
	if !ok {
		return w.fallback.Wait(e)
	}
	if d > w.max {
		return w.max
	}
	return d
}

// RetryAfter extracts the server-advertised wait from h, relative to
// now. The second return value is false if h carries no usable hint.
func RetryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second, true
		}
		if t, err := http.ParseTime(v); err == nil {
			return nonNegative(t.Sub(now)), true
		}
	}

	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			reset := time.Unix(epoch, 0).Add(time.Second)
			return nonNegative(reset.Sub(now)), true
		}
	}

	return 0, false
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
