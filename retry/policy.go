// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"net/http"
	"time"
)

// Unbounded is the MaxAttempts value meaning "retry until success".
// Any negative MaxAttempts is treated the same way, and Unbounded is
// also the attemptsLeft value passed to a Hook when the budget has no
// bound.
const Unbounded = -1

const (
	// DefaultInitialDelay is the first backoff delay of DefaultPolicy.
	DefaultInitialDelay = 1 * time.Second
	// DefaultMaxDelay is the backoff ceiling of DefaultPolicy.
	DefaultMaxDelay = 5 * time.Second
)

var defaultExemptStatusCodes = []int{
	400, 401, 402, 403, 404, 405, 406, 407, 409, 410, 411, 412, 413, 414,
	415, 416, 417, 418, 421, 422, 423, 424, 426, 428, 429, 431, 451,
	501, 505, 506, 507, 508, 510, 511,
}

// DefaultExemptStatusCodes returns a fresh copy of the status codes
// DefaultPolicy never retries: client errors the caller has to deal
// with, plus server errors that retrying cannot fix (for example 501
// Not Implemented and 505 HTTP Version Not Supported).
func DefaultExemptStatusCodes() []int {
	ss := make([]int, len(defaultExemptStatusCodes))
	copy(ss, defaultExemptStatusCodes)
	return ss
}

// A Hook observes retries. It is called once for every failed attempt,
// before the backoff wait, with:
//
// • attemptsLeft, the number of attempts that remained in the budget
// when the failed attempt was made (so 1 on the last attempt), or
// Unbounded;
//
// • delay, the backoff about to be waited;
//
// • resp, the failed response, or nil if the attempt ended with a
// transport error; and
//
// • err, the transport error, or nil if a response was received.
//
// The response body is closed after the hook returns, so a hook that
// wants to inspect the body must read it before returning.
type Hook func(attemptsLeft int, delay time.Duration, resp *http.Response, err error)

// A Policy controls the retry loop of the retrying HTTP client.
//
// Policy values are read, never modified, by the client, so one Policy
// may be shared by any number of concurrent executions.
type Policy struct {
	// MaxAttempts is the attempt budget. A negative value (Unbounded)
	// means no bound. Zero means no attempt is made and every
	// execution fails immediately.
	MaxAttempts int

	// InitialDelay is the wait after the first failed attempt. It must
	// be positive.
	InitialDelay time.Duration

	// MaxDelay caps the backoff delay. It must be at least
	// InitialDelay.
	MaxDelay time.Duration

	// ExemptStatusCodes lists the non-2XX status codes which end the
	// execution with no retry. An exempt response is returned to the
	// caller without error.
	ExemptStatusCodes []int

	// Decider, if non-nil, replaces the default classification (2XX or
	// exempt) for deciding whether a response ends the execution.
	// ExemptStatusCodes is ignored when Decider is set.
	Decider Decider

	// OnRetry is invoked before each backoff wait. If nil, the client
	// falls back to its own default hook, which logs the retry.
	OnRetry Hook
}

// DefaultPolicy returns a new Policy with unbounded attempts, a one
// second initial delay, a five second maximum delay, and the default
// exempt status codes.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxAttempts:       Unbounded,
		InitialDelay:      DefaultInitialDelay,
		MaxDelay:          DefaultMaxDelay,
		ExemptStatusCodes: DefaultExemptStatusCodes(),
	}
}

var (
	errInitialDelay = errors.New("retryhttp/retry: initial delay must be positive")
	errMaxDelay     = errors.New("retryhttp/retry: max delay must be at least initial delay")
)

// Validate reports whether the policy's delay bounds are usable.
func (p *Policy) Validate() error {
	if p.InitialDelay <= 0 {
		return errInitialDelay
	}
	if p.MaxDelay < p.InitialDelay {
		return errMaxDelay
	}
	return nil
}

// Bounded indicates whether the attempt budget is finite.
func (p *Policy) Bounded() bool {
	return p.MaxAttempts >= 0
}

// Allows indicates whether another attempt may be made after used
// attempts.
func (p *Policy) Allows(used int) bool {
	return !p.Bounded() || used < p.MaxAttempts
}

// AttemptsLeft returns the number of attempts remaining in the budget
// after used attempts, or Unbounded.
func (p *Policy) AttemptsLeft(used int) int {
	if !p.Bounded() {
		return Unbounded
	}
	return p.MaxAttempts - used
}

// Resolves indicates whether resp ends the execution: either the
// policy's Decider accepts it, or, with no Decider, its status is 2XX
// or exempt.
func (p *Policy) Resolves(resp *http.Response) bool {
	if p.Decider != nil {
		return p.Decider.Decide(resp)
	}
	if OK(resp) {
		return true
	}
	for _, s := range p.ExemptStatusCodes {
		if resp.StatusCode == s {
			return true
		}
	}
	return false
}
