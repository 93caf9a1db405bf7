// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/retryhttp/request"
	"github.com/gogama/retryhttp/retry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// An HTTPDoer sends one HTTP request and returns its response, in the
// manner of http.Client from the net/http package. It is the transport
// capability the retrying client builds on.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response. The
	// contract is the one documented on http.Client.Do.
	Do(r *http.Request) (*http.Response, error)
}

// The DoerFunc type is an adapter to allow the use of ordinary
// functions, such as an http.RoundTripper's RoundTrip method, as an
// HTTPDoer.
type DoerFunc func(r *http.Request) (*http.Response, error)

// Do calls f(r).
func (f DoerFunc) Do(r *http.Request) (*http.Response, error) {
	return f(r)
}

// maxDrain bounds how much of a failed response body is read before it
// is closed, so that the connection can be reused.
const maxDrain = 64 << 10

var emptyHandlers = HandlerGroup{}

// A Client sends HTTP requests, retrying failed attempts with capped
// exponential backoff. Its zero value is a valid configuration which
// uses http.DefaultClient, retry.DefaultPolicy, no event handlers, and
// the global zerolog logger.
//
// An attempt fails if it ends in a transport error, or if it returns a
// response whose status is neither 2XX nor exempt under the retry
// policy. After each failure the client calls the policy's retry hook,
// waits the current backoff delay, doubles the delay up to the policy
// maximum, and tries again, until an attempt succeeds or the attempt
// budget runs out.
//
// Client is safe for concurrent use by multiple goroutines. Every call
// keeps its own retry state; nothing is shared between calls.
type Client struct {
	// HTTPDoer sends each individual attempt. If nil,
	// http.DefaultClient is used. An *http.Client whose transport is a
	// Transport from Install sends through that Transport's Base.
	HTTPDoer HTTPDoer
	// RetryPolicy controls the attempt budget, the backoff bounds,
	// which responses are final, and the retry hook. If nil,
	// retry.DefaultPolicy() is used.
	RetryPolicy *retry.Policy
	// Handlers holds event handlers run at fixed points of the retry
	// loop. If nil, no handlers are run.
	Handlers *HandlerGroup
	// Logger receives retry log lines from the default retry hook, and
	// warnings about retry hooks that panic. If nil, the global
	// logger of github.com/rs/zerolog/log is used.
	Logger *zerolog.Logger
}

// Do executes a request plan and returns the final response.
//
// A nil error means the final attempt returned a response the retry
// policy accepts: a 2XX status, or an exempt status such as 404. An
// exempt response is not an error; checking its status code is up to
// the caller. The caller must close the returned response's body.
//
// If the attempt budget runs out, the error is an *ExhaustedError
// whose Last field holds the final failure: a *StatusError for a
// failed response, or a *url.Error for a transport error. A policy
// with a zero attempt budget fails at once with Last set to
// ErrNoAttempts.
//
// If the plan's context ends, the execution stops without waiting out
// the current backoff and the error is a *url.Error wrapping the
// context's error. An invalid retry policy is reported before any
// attempt is made.
func (c *Client) Do(p *request.Plan) (*http.Response, error) {
	policy := c.policy()
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	logger := c.logger()
	hook := policy.OnRetry
	if hook == nil {
		hook = LogRetries(logger, p.URL.String())
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}

	e := request.Execution{
		Plan:  p,
		Delay: policy.InitialDelay,
	}
	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

	resp, err := execute(p, &e, c.doer(), handlers, policy, hook, logger)
	e.Err = err

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, &e)
	return resp, err
}

func execute(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup,
	policy *retry.Policy, hook retry.Hook, logger *zerolog.Logger) (*http.Response, error) {
	ctx := p.Context()

	for policy.Allows(e.Attempt) {
		attemptsLeft := policy.AttemptsLeft(e.Attempt)

		sendAndReceive(p, e, doer, handlers)
		handlers.run(AfterAttempt, e)

		if e.Err == nil && policy.Resolves(e.Response) {
			return e.Response, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			closeBody(e.Response)
			if e.Err == nil {
				e.Err = urlErrorWrap(p, ctxErr)
			}
			return nil, e.Err
		}

		transportErr := e.Err
		if transportErr == nil {
			e.Err = newStatusError(e.Response)
		}

		handlers.run(BeforeRetryWait, e)
		callHook(logger, hook, attemptsLeft, e.Delay, e.Response, transportErr)
		closeBody(e.Response)

		if err := wait(ctx, e.Delay); err != nil {
			return nil, urlErrorWrap(p, err)
		}

		e.Delay = policy.NextDelay(e.Delay)
		e.Attempt++
	}

	last := e.Err
	if e.Attempt == 0 {
		last = ErrNoAttempts
	}
	return nil, &ExhaustedError{Attempts: e.Attempt, Last: last}
}

func sendAndReceive(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup) {
	e.Request = p.ToRequest(p.Context())
	e.Response = nil
	e.Err = nil
	handlers.run(BeforeAttempt, e)

	resp, err := doer.Do(e.Request)
	switch {
	case err != nil:
		closeBody(resp)
		e.Err = urlErrorWrap(p, err)
	case resp == nil:
		e.Err = urlErrorWrap(p, errNilResponse)
	default:
		e.Response = resp
	}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func closeBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	_ = resp.Body.Close()
}

// Get issues a GET to the specified URL through Do.
func (c *Client) Get(url string) (*http.Response, error) {
	return Get(c, url)
}

// Head issues a HEAD to the specified URL through Do.
func (c *Client) Head(url string) (*http.Response, error) {
	return Head(c, url)
}

// Post issues a POST to the specified URL through Do. The body may be
// nil, a string, a []byte, an io.Reader or an io.ReadCloser; it is
// buffered so that it can be resent on retry.
func (c *Client) Post(url, contentType string, body interface{}) (*http.Response, error) {
	return Post(c, url, contentType, body)
}

// PostForm issues a POST to the specified URL through Do, with data's
// keys and values URL-encoded as the request body.
func (c *Client) PostForm(url string, data url.Values) (*http.Response, error) {
	return PostForm(c, url, data)
}

// CloseIdleConnections forwards to the HTTPDoer's method of the same
// name, if it has one.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.doer().(interface{ CloseIdleConnections() }); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return directDoer(http.DefaultClient)
	}
	if hc, ok := c.HTTPDoer.(*http.Client); ok {
		return directDoer(hc)
	}
	return c.HTTPDoer
}

// directDoer returns hc, or a copy of hc that sends through the Base of
// an installed Transport, so that a Client never runs a second retry
// loop inside each of its own attempts.
func directDoer(hc *http.Client) *http.Client {
	t, ok := hc.Transport.(*Transport)
	if !ok {
		return hc
	}
	direct := *hc
	direct.Transport = t.base()
	return &direct
}

func (c *Client) policy() *retry.Policy {
	if c.RetryPolicy == nil {
		return retry.DefaultPolicy()
	}
	return c.RetryPolicy
}

func (c *Client) logger() *zerolog.Logger {
	if c.Logger == nil {
		return &log.Logger
	}
	return c.Logger
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

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
