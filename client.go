// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/retry"
	"github.com/gogama/tmdbx/timeout"
)

var emptyHandlers = HandlerGroup{}

// A Client is the retrying transport underneath the Adapter. Its zero
// value is ready to use: http.DefaultClient sends the requests, with
// timeout.DefaultPolicy, retry.DefaultPolicy and no handlers.
//
// Client buffers each response body fully into the Execution, sets
// per-attempt timeouts, retries failed attempts, and fires the events
// listed under Event at each step. Everything below that (connection
// pooling, redirects, HTTP/2) belongs to the HTTPDoer.
//
// A Client is safe for concurrent use and should be reused, since its
// HTTPDoer usually caches connections.
type Client struct {
	// HTTPDoer sends the individual requests. If nil,
	// http.DefaultClient is used.
	HTTPDoer HTTPDoer
	// RetryPolicy decides when to retry and how long to wait. If nil,
	// retry.DefaultPolicy is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy sets per-attempt timeouts. If nil,
	// timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Handlers are run as events occur. May be nil.
	Handlers *HandlerGroup
}

// Do executes the plan and returns the state after the final attempt.
//
// An error is returned only if the final attempt failed to produce a
// response with a fully read body. Any status code, including 4XX and
// 5XX, counts as a response. The error is always a *url.Error and is
// also stored in the Execution's Err field. The returned Execution is
// never nil.
func (c *Client) Do(p *request.Plan) (*request.Execution, error) {
	e := request.Execution{
		Plan: p,
	}

	doer := c.doer()

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	retryPolicy := c.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.DefaultPolicy
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

RetryLoop:
	for {
		sendAndReceive(p, &e, doer, handlers, timeoutPolicy)
		if e.Timeout() {
			e.AttemptTimeouts++
			handlers.run(AfterAttemptTimeout, &e)
		}
		handlers.run(AfterAttempt, &e)
		planCtxErr := p.Context().Err()
		if errors.Is(planCtxErr, context.DeadlineExceeded) {
			handlers.run(AfterPlanTimeout, &e)
			break
		} else if planCtxErr != nil {
			e.Err = urlErrorWrap(p, planCtxErr)
			break
		} else if !retryPolicy.Decide(&e) {
			break
		}

		timer := time.NewTimer(retryPolicy.Wait(&e))
		select {
		case <-timer.C:
		case <-p.Context().Done():
			timer.Stop()
			err := p.Context().Err()
			e.Err = urlErrorWrap(p, err)
			if errors.Is(err, context.DeadlineExceeded) {
				handlers.run(AfterPlanTimeout, &e)
			}
			break RetryLoop
		}
		e.Response = nil
		e.Err = nil
		e.Body = nil
		e.Attempt++
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, &e)
	return &e, e.Err
}

func sendAndReceive(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup, timeoutPolicy timeout.Policy) {
	ctx, cancel := context.WithTimeout(p.Context(), timeoutPolicy.Timeout(e))
	defer cancel()
	e.Request = p.ToRequest(ctx)
	handlers.run(BeforeAttempt, e)
	var err error
	e.Response, err = doer.Do(e.Request)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
		return
	}
	readBody(p, e, handlers)
}

func readBody(p *request.Plan, e *request.Execution, handlers *HandlerGroup) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	var err error
	e.Body, err = io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
	}
}

// CloseIdleConnections forwards to the HTTPDoer if it is an
// IdleCloser, and otherwise does nothing.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.doer().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp matches the Op net/http puts in its *url.Error values.
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
