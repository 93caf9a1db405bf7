// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

import (
	"net/http"
	"net/url"

	"github.com/gogama/retryhttp/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes a request plan with retries and returns the final
// response (and error, if any). Client implements the Doer interface,
// and any other Doer implementation must behave substantially the same
// as Client.Do: a 2XX or exempt final status is returned with a nil
// error, and running out of attempts returns an *ExhaustedError.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(p *request.Plan) (*http.Response, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get follows Client.Do: an exempt status such as 404 is returned
// without error, and exhaustion is reported as an *ExhaustedError.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string) (*http.Response, error)
}

// Header is the interface that wraps the basic Head method.
//
// Head follows Client.Do: an exempt status is returned without error,
// and exhaustion is reported as an *ExhaustedError.
//
// Any Doer can be used to emulate a Header via the Head function.
type Header interface {
	Head(url string) (*http.Response, error)
}

// Poster is the interface that wraps the basic Post method.
//
// The body parameter may be nil for an empty body, or any of the types
// supported by request.BodyBytes: string; []byte; io.Reader; and
// io.ReadCloser. The body is buffered and resent on every attempt.
//
// Post follows Client.Do: an exempt status is returned without error,
// and exhaustion is reported as an *ExhaustedError.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url, contentType string, body interface{}) (*http.Response, error)
}

// FormPoster is the interface that wraps the basic PostForm method.
//
// PostForm follows Client.Do: an exempt status is returned without
// error, and exhaustion is reported as an *ExhaustedError.
//
// Any Doer can be used to emulate a FormPoster via the PostForm
// function.
type FormPoster interface {
	PostForm(url string, data url.Values) (*http.Response, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation does not support closing idle
// connections, CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the basic Do, Get, Head, Post,
// PostForm, and CloseIdleConnections methods. Its request methods all
// share the result semantics of Client.Do.
type Executor interface {
	Doer
	Getter
	Header
	Poster
	FormPoster
	IdleCloser
}

// Get uses d to issue a GET to the specified URL.
//
// To make a request plan with custom headers, use request.NewPlan and
// d.Do.
func Get(d Doer, url string) (*http.Response, error) {
	p, err := request.NewPlan("GET", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(p)
}

// Head uses d to issue a HEAD to the specified URL.
func Head(d Doer, url string) (*http.Response, error) {
	p, err := request.NewPlan("HEAD", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(p)
}

// Post uses d to issue a POST to the specified URL with the given
// content type.
func Post(d Doer, url, contentType string, body interface{}) (*http.Response, error) {
	p, err := request.NewPlan("POST", url, body)
	if err != nil {
		return nil, err
	}
	p.Header.Set("Content-Type", contentType)
	return d.Do(p)
}

// PostForm uses d to issue a POST to the specified URL, with data's
// keys and values URL-encoded as the request body and the content type
// set to application/x-www-form-urlencoded.
func PostForm(d Doer, url string, data url.Values) (*http.Response, error) {
	return Post(d, url, "application/x-www-form-urlencoded", data.Encode())
}

// Inflate converts any non-nil Doer into an Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("retryhttp: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(p *request.Plan) (*http.Response, error) {
	return i.doer.Do(p)
}

func (i inflated) Get(url string) (*http.Response, error) {
	return Get(i.doer, url)
}

func (i inflated) Head(url string) (*http.Response, error) {
	return Head(i.doer, url)
}

func (i inflated) Post(url, contentType string, body interface{}) (*http.Response, error) {
	return Post(i.doer, url, contentType, body)
}

func (i inflated) PostForm(url string, data url.Values) (*http.Response, error) {
	return PostForm(i.doer, url, data)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
