// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"github.com/gogama/tmdbx/request"
)

// A HandlerGroup holds one handler chain per Event. Install it in a
// Client to extend the transport with logging, metrics and the like.
//
// A HandlerGroup must not be modified while a Client using it is
// executing plans.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack appends h to the chain for evt.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("tmdbx: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic("tmdbx: invalid event")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// PushBackAll appends h to the chain of every event.
func (g *HandlerGroup) PushBackAll(h Handler) {
	for _, evt := range Events() {
		g.PushBack(evt, h)
	}
}

// Len returns the number of handlers in the chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	if int(evt) >= len(g.handlers) || evt < 0 {
		return 0
	}
	return len(g.handlers[evt])
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	if int(evt) < len(g.handlers) {
		for _, h := range g.handlers[evt] {
			h.Handle(evt, e)
		}
	}
}

// A Handler handles an event during a plan execution.
type Handler interface {
	Handle(Event, *request.Execution)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
