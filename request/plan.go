// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const (
	nilCtxMsg = "retryhttp/request: nil context"
)

// A Plan describes a logical HTTP request: the target URL plus the
// options (method, headers, body) needed to send it. The retrying
// client treats a Plan as opaque and read-only, converting it into a
// fresh http.Request for every attempt so the same logical request can
// be sent as many times as the retry policy allows.
//
// Because the body must be replayable, a Plan holds a fully buffered
// body rather than a stream.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to send on every
	// attempt. Each attempt receives its own copy.
	Header http.Header

	// Body is the pre-buffered request body. A nil or empty body means
	// no body is sent.
	Body []byte

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host is sent.
	Host string

	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
func NewPlan(method, url string, body interface{}) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, url, body)
}

// NewPlanWithContext returns a new Plan given a method, URL, and
// optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. Readers are read to the end and
// buffered; an io.ReadCloser is closed after buffering.
func NewPlanWithContext(ctx context.Context, method, url string, body interface{}) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = http.MethodGet
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("retryhttp/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Plan{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
		Host:   strings.TrimSuffix(u.Host, ":"),
	}, nil
}

// FromRequest converts an outgoing http.Request into a Plan that can be
// replayed. The request's context, method, URL, header and Host carry
// over unchanged.
//
// The request body is buffered. If r.GetBody is set it is used to
// obtain a fresh copy of the body; otherwise r.Body itself is read.
// In either case r.Body is closed before FromRequest returns, matching
// the contract http.RoundTripper places on its callers.
func FromRequest(r *http.Request) (*Plan, error) {
	if r.URL == nil {
		closeBody(r)
		return nil, errors.New("retryhttp/request: nil URL")
	}

	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		var err error
		if r.GetBody != nil {
			var rc io.ReadCloser
			rc, err = r.GetBody()
			if err == nil {
				body, err = BodyBytes(rc)
			}
			closeBody(r)
		} else {
			body, err = BodyBytes(r.Body)
		}
		if err != nil {
			return nil, err
		}
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	header := r.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	return &Plan{
		ctx:    r.Context(),
		Method: method,
		URL:    r.URL,
		Header: header,
		Body:   body,
		Host:   r.Host,
	}, nil
}

func closeBody(r *http.Request) {
	if r.Body != nil {
		_ = r.Body.Close()
	}
}

// Context returns the plan's context, which bounds the whole execution
// including every retry wait. It defaults to the background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// SetBasicAuth sets the plan's Authorization header to use HTTP Basic
// Authentication with the provided username and password.
func (p *Plan) SetBasicAuth(username, password string) {
	auth := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	p.Header.Set("Authorization", "Basic "+auth)
}

// ToRequest creates the http.Request for one attempt. Header and URL
// are copied, so changes made to the request (for example by a
// BeforeAttempt handler) never leak back into the plan or into later
// attempts. The body is a fresh reader over the buffered plan body.
func (p *Plan) ToRequest(ctx context.Context) *http.Request {
	u := *p.URL
	r := &http.Request{
		Method:     p.Method,
		URL:        &u,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     p.Header.Clone(),
		Host:       p.Host,
	}
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	if len(p.Body) > 0 {
		body := p.Body
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		r.ContentLength = int64(len(body))
	}
	return r.WithContext(ctx)
}

func validMethod(method string) bool {
	return strings.IndexFunc(method, func(r rune) bool {
		return !httpguts.IsTokenRune(r)
	}) == -1
}
