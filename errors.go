// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	// ErrRetriesExhausted matches, via errors.Is, every error returned
	// because the attempt budget ran out.
	ErrRetriesExhausted = errors.New("retryhttp: retries exhausted")

	// ErrNoAttempts is the last error of an execution whose policy
	// allowed no attempts at all.
	ErrNoAttempts = errors.New("retryhttp: attempt budget is zero")

	errNilResponse = errors.New("retryhttp: doer returned nil response and nil error")
)

// A StatusError records a response that was neither successful nor
// exempt. It is what the retry hook and the caller see as the failure
// of such an attempt.
type StatusError struct {
	// Response is the failed response. Its body has been closed by the
	// time the error is returned to the caller.
	Response *http.Response
	// StatusCode is the response status code.
	StatusCode int
	// Status is the status text, for example "Service Unavailable".
	Status string
}

func newStatusError(resp *http.Response) *StatusError {
	return &StatusError{
		Response:   resp,
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}
}

// Error returns "HTTP <code> <text>".
func (e *StatusError) Error() string {
	if e.Status == "" {
		return "HTTP " + strconv.Itoa(e.StatusCode)
	}
	return "HTTP " + strconv.Itoa(e.StatusCode) + " " + e.Status
}

// statusText returns the reason phrase of resp, preferring what the
// server sent over the standard text for the code.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if s := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode)
}

// An ExhaustedError is returned when every attempt allowed by the retry
// policy failed. It unwraps to the failure of the final attempt (a
// *StatusError or a *url.Error), or to ErrNoAttempts if the policy
// allowed none, and it matches ErrRetriesExhausted.
type ExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int
	// Last is the failure of the final attempt.
	Last error
}

func (e *ExhaustedError) Error() string {
	noun := "attempts"
	if e.Attempts == 1 {
		noun = "attempt"
	}
	return fmt.Sprintf("%s after %d %s: %v", ErrRetriesExhausted, e.Attempts, noun, e.Last)
}

// Unwrap returns the final failure.
func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Is reports whether target is ErrRetriesExhausted.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}
