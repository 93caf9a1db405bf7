// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import "net/http"

// A Decider decides whether a received response ends the execution.
// Decide returns true to hand the response to the caller, and false to
// treat it as a retryable failure.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Decider interface {
	Decide(resp *http.Response) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as deciders. It also provides the composition methods And
// and Or.
type DeciderFunc func(resp *http.Response) bool

// Decide calls f(resp).
func (f DeciderFunc) Decide(resp *http.Response) bool {
	return f(resp)
}

// And composes two deciders into one that accepts a response only if
// both do. g is not evaluated if f returns false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(resp *http.Response) bool {
		return f(resp) && g(resp)
	}
}

// Or composes two deciders into one that accepts a response if either
// does. g is not evaluated if f returns true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(resp *http.Response) bool {
		return f(resp) || g(resp)
	}
}

// OK accepts any response with a 2XX status code.
var OK DeciderFunc = func(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// StatusCode constructs a decider accepting responses whose status
// code is in ss.
func StatusCode(ss ...int) DeciderFunc {
	set := make(map[int]struct{}, len(ss))
	for _, s := range ss {
		set[s] = struct{}{}
	}
	return func(resp *http.Response) bool {
		_, ok := set[resp.StatusCode]
		return ok
	}
}
