// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/retryhttp/transient"
)

// An Execution holds the state of one Plan execution: how many
// attempts have been used, the backoff delay that will be applied after
// the next failure, and the outcome of the most recent attempt.
//
// Each call to the retrying client creates its own Execution and hands
// it to event handlers as the call progresses. Handlers may store
// values on it with SetValue, but should otherwise treat its exported
// fields as read-only.
type Execution struct {
	// Plan is the request plan being executed. It is never nil.
	Plan *Plan

	// Start is the time the execution started. It is zero until the
	// first attempt is about to be made.
	Start time.Time

	// End is the time the execution ended. It is zero while the
	// execution is in flight.
	End time.Time

	// Attempt is the number of attempts already used. It is zero
	// during the initial attempt and grows by exactly one after each
	// failed attempt and its backoff wait.
	//
	// Once the execution has ended in exhaustion, Attempt equals the
	// policy's attempt budget.
	Attempt int

	// Delay is the backoff wait that follows the current attempt if it
	// fails. It starts at the policy's initial delay, doubles after
	// each wait, and never exceeds the policy's maximum delay.
	Delay time.Duration

	// Request is the HTTP request for the current or most recent
	// attempt.
	Request *http.Request

	// Response is the HTTP response received in the most recent
	// attempt, or nil if that attempt ended with a transport error.
	//
	// Responses from failed attempts have their bodies closed before
	// the backoff wait begins.
	Response *http.Response

	// Err is the failure recorded for the most recent attempt: either
	// the transport error, or a status error synthesized from a
	// response that was neither successful nor exempt. It is nil while
	// an attempt is underway and after a successful attempt.
	Err error

	data context.Context
}

// StatusCode returns the status code of the most recent response, or 0
// if there is none.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the headers of the most recent response, or a nil
// header if there is none.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		return nil
	}

	return e.Response.Header
}

// Duration returns how long the execution has been running, or how
// long it ran if it has ended. It is zero before the execution starts.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return 0
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout indicates whether Err currently holds a timeout error.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue stores a handler-scoped value on the execution. The key
// follows the rules of context.WithValue: it must be comparable and
// should be of an unexported type to avoid collisions.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the value stored for key, or nil.
func (e *Execution) Value(key interface{}) interface{} {
	if e.data == nil {
		return nil
	}

	return e.data.Value(key)
}
