// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

import (
	"net/http"

	"github.com/gogama/retryhttp/request"
	"github.com/gogama/retryhttp/retry"
	"github.com/rs/zerolog"
)

// A Transport is an http.RoundTripper that retries failed round trips
// under a retry policy. It lets code that only knows about http.Client
// pick up retries without changing how it makes requests.
//
// Each round trip is buffered into a request.Plan and executed exactly
// as Client.Do executes it, using Base to send the individual attempts.
// A request whose body cannot be read fails without any attempt.
type Transport struct {
	// Base sends each individual attempt. If nil,
	// http.DefaultTransport is used.
	Base http.RoundTripper
	// RetryPolicy is the retry policy. If nil, retry.DefaultPolicy()
	// is used.
	RetryPolicy *retry.Policy
	// Handlers holds event handlers. If nil, no handlers are run.
	Handlers *HandlerGroup
	// Logger is the retry logger. If nil, the global zerolog logger is
	// used.
	Logger *zerolog.Logger
}

// RoundTrip executes r with retries. The request body, if any, is
// always closed.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	p, err := request.FromRequest(r)
	if err != nil {
		return nil, err
	}

	c := Client{
		HTTPDoer:    DoerFunc(t.base().RoundTrip),
		RetryPolicy: t.RetryPolicy,
		Handlers:    t.Handlers,
		Logger:      t.Logger,
	}
	return c.Do(p)
}

// CloseIdleConnections forwards to Base, if it supports closing idle
// connections.
func (t *Transport) CloseIdleConnections() {
	if ic, ok := t.base().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}
	return t.Base
}

// Install makes c retry its requests under p by wrapping c's transport
// in a Transport, and returns the installed Transport.
//
// If c's transport is already a *Transport, Install replaces it with a
// new one which carries p but keeps the existing Base, handlers and
// logger, so installing twice never stacks two retry loops. Passing
// http.DefaultClient affects every user of the default client in the
// process.
//
// Install must not be called while c is in use.
func Install(c *http.Client, p *retry.Policy) *Transport {
	if c == nil {
		panic("retryhttp: nil client")
	}

	t := &Transport{
		Base:        c.Transport,
		RetryPolicy: p,
	}
	if prev, ok := c.Transport.(*Transport); ok {
		t.Base = prev.Base
		t.Handlers = prev.Handlers
		t.Logger = prev.Logger
	}

	c.Transport = t
	return t
}
