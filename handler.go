// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

import (
	"github.com/gogama/retryhttp/request"
)

// A HandlerGroup holds one handler chain per event. Install it on a
// Client or Transport to extend the retry loop.
//
// A HandlerGroup must not be modified while executions using it are in
// flight.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds h to the back of the handler chain for evt.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("retryhttp: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic("retryhttp: invalid event")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	i := int(evt)
	if i < len(g.handlers) {
		for _, h := range g.handlers[i] {
			h.Handle(evt, e)
		}
	}
}

// A Handler handles the occurrence of an event during an execution.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
