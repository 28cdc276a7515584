// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gogama/tmdbx/retry"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultPause is how long requests are held back after a 429 response
// that does not say when to come back.
const DefaultPause = 11 * time.Second

// An HTTPDoer sends one HTTP request. *http.Client implements it.
type HTTPDoer interface {
	Do(r *http.Request) (*http.Response, error)
}

// A Doer is an HTTPDoer that paces the requests it forwards. It is safe
// for concurrent use.
type Doer struct {
	doer    HTTPDoer
	limiter *rate.Limiter
	logger  zerolog.Logger
	now     func() time.Time

	lock   sync.Mutex
	resume time.Time
}

// New returns a Doer forwarding to doer at most r requests per second,
// with bursts of up to burst requests. Use rate.Inf to disable pacing
// and keep only the 429 pause.
func New(doer HTTPDoer, r rate.Limit, burst int, logger zerolog.Logger) *Doer {
	if doer == nil {
		panic("tmdbx/ratelimit: nil doer")
	}
	if burst < 1 {
		burst = 1
	}
	return &Doer{
		doer:    doer,
		limiter: rate.NewLimiter(r, burst),
		logger:  logger.With().Str("component", "ratelimit").Logger(),
		now:     time.Now,
	}
}

// Do waits until the request may be sent, then sends it. It returns the
// context error if the request's context ends while waiting.
func (d *Doer) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := d.waitResume(ctx); err != nil {
		return nil, err
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := d.doer.Do(req)
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		d.pause(resp.Header)
	}
	return resp, err
}

// Resume returns the time until which requests are held back. It is in
// the past when the Doer is not paused.
func (d *Doer) Resume() time.Time {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.resume
}

// Limit returns the current rate and burst.
func (d *Doer) Limit() (rate.Limit, int) {
	return d.limiter.Limit(), d.limiter.Burst()
}

// CloseIdleConnections forwards to the wrapped HTTPDoer if it has the
// method.
func (d *Doer) CloseIdleConnections() {
	if ic, ok := d.doer.(interface{ CloseIdleConnections() }); ok {
		ic.CloseIdleConnections()
	}
}

func (d *Doer) waitResume(ctx context.Context) error {
	wait := d.Resume().Sub(d.now())
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pause holds requests back until the reset time in h. A positive
// X-RateLimit-Limit becomes the burst the bucket refills to.
func (d *Doer) pause(h http.Header) {
	now := d.now()
	wait, ok := retry.RetryAfter(h, now)
	if !ok {
		wait = DefaultPause
	}
	until := now.Add(wait)

	d.lock.Lock()
	if until.After(d.resume) {
		d.resume = until
	}
	limit, err := strconv.Atoi(h.Get("X-RateLimit-Limit"))
	if err == nil && limit > 0 {
		d.limiter.SetBurst(limit)
	}
	d.lock.Unlock()

	d.logger.Warn().
		Dur("pause", wait).
		Time("resume", until).
		Str("limit", h.Get("X-RateLimit-Limit")).
		Msg("rate-limited by TMDb, holding requests")
}
