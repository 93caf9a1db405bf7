// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

// An Event identifies a point in the retry loop where installed
// handlers run.
type Event int

const (
	// BeforeExecutionStart occurs before the first attempt. Only the
	// execution's plan and initial delay are set.
	BeforeExecutionStart Event = iota
	// BeforeAttempt occurs before each attempt, once the attempt's
	// request has been built. Handlers may modify the request (for
	// example to sign it); changes do not carry over to later attempts.
	BeforeAttempt
	// AfterAttempt occurs after each attempt, before the response is
	// classified. Exactly one of the execution's response and error is
	// non-nil.
	AfterAttempt
	// BeforeRetryWait occurs after an attempt has been judged a
	// retryable failure, before the retry hook runs and before the
	// backoff wait. The execution's error holds the failure and its
	// delay holds the wait that is about to happen.
	BeforeRetryWait
	// AfterExecutionEnd occurs once the execution is over, whether it
	// returned a response or an error. The execution's error holds the
	// error returned to the caller, if any.
	AfterExecutionEnd

	eventSentinel

	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"AfterAttempt",
	"BeforeRetryWait",
	"AfterExecutionEnd",
}

// Events returns all events in the order they can occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		AfterAttempt,
		BeforeRetryWait,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
