// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"syscall"

	"golang.org/x/net/http2"
)

// A Category is the kind of transport failure an error represents, as
// reported by Categorize.
type Category int

const (
	// Not indicates a nil error, or an error that fits none of the
	// other categories.
	Not Category = iota
	// Timeout indicates a client-side timeout: the error, or an error
	// it wraps, has a Timeout method reporting true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED), typically while a service is restarting.
	ConnRefused
	// ConnReset indicates the remote host reset an established
	// connection (syscall.ECONNRESET).
	ConnReset
	// GoAway indicates the server sent an HTTP/2 GOAWAY frame
	// (http2.GoAwayError) and stopped accepting new streams on the
	// connection.
	GoAway
	// RefusedStream indicates the server reset an HTTP/2 stream with
	// REFUSED_STREAM before processing it, so the request is known not
	// to have been acted on.
	RefusedStream
)

var categoryNames = []string{
	"not",
	"timeout",
	"conn_refused",
	"conn_reset",
	"go_away",
	"refused_stream",
}

// String returns a short snake_case name for the category, suitable
// for use as a log field or metric label.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Categorize returns the category of err. Wrapped causes are examined
// as well as err itself. Timeout takes precedence over every other
// category.
//
// The HTTP/2 categories are only reported for the error types of
// golang.org/x/net/http2, which appear when that package's Transport
// is used directly.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	var goAway http2.GoAwayError
	if errors.As(err, &goAway) {
		return GoAway
	}

	var streamErr http2.StreamError
	if errors.As(err, &streamErr) && streamErr.Code == http2.ErrCodeRefusedStream {
		return RefusedStream
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
