// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"net/http"
	"net/url"
	"testing"

	"github.com/gogama/retryhttp/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		expected := &http.Response{StatusCode: 200}
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "GET" && p.URL.String() == "foo"
		})).Return(expected, nil).Once()
		resp, err := Get(m, "foo")
		assert.Same(t, expected, resp)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("error invalid URL", func(t *testing.T) {
		m := newMockDoer(t)
		resp, err := Get(m, ":::")
		assert.Nil(t, resp)
		assert.Error(t, err)
		m.AssertNotCalled(t, "Do", mock.Anything)
	})
}

func TestHead(t *testing.T) {
	expected := &http.Response{StatusCode: 204}
	m := newMockDoer(t)
	m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
		return p.Method == "HEAD" && p.URL.String() == "bar"
	})).Return(expected, nil).Once()
	resp, err := Head(m, "bar")
	assert.Same(t, expected, resp)
	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestPost(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		expected := &http.Response{StatusCode: 201}
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "POST" && p.URL.String() == "baz" &&
				p.Header.Get("Content-Type") == "ham" &&
				bytes.Equal(p.Body, []byte("eggs"))
		})).Return(expected, nil).Once()
		resp, err := Post(m, "baz", "ham", "eggs")
		assert.Same(t, expected, resp)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("error invalid body", func(t *testing.T) {
		m := newMockDoer(t)
		resp, err := Post(m, "baz", "text/plain", 123)
		assert.Nil(t, resp)
		assert.Error(t, err)
		m.AssertNotCalled(t, "Do", mock.Anything)
	})
}

func TestPostForm(t *testing.T) {
	expected := &http.Response{StatusCode: 200}
	m := newMockDoer(t)
	m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
		return p.Method == "POST" && p.URL.String() == "qux" &&
			p.Header.Get("Content-Type") == "application/x-www-form-urlencoded" &&
			string(p.Body) == "a=1&b=2"
	})).Return(expected, nil).Once()
	resp, err := PostForm(m, "qux", url.Values{"a": {"1"}, "b": {"2"}})
	assert.Same(t, expected, resp)
	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestInflate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "retryhttp: nil doer", func() { Inflate(nil) })
	})
	t.Run("Executor", func(t *testing.T) {
		cl := &Client{}
		assert.Same(t, cl, Inflate(cl))
	})
	t.Run("Doer", func(t *testing.T) {
		m := newMockDoer(t)
		ok := &http.Response{StatusCode: 200}
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "GET"
		})).Return(ok, nil).Once()
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "HEAD"
		})).Return(ok, nil).Once()
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "POST"
		})).Return(ok, nil).Twice()
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "PUT"
		})).Return(ok, nil).Once()

		x := Inflate(m)
		_, isInflated := x.(inflated)
		assert.True(t, isInflated)

		p, err := request.NewPlan("PUT", "x", nil)
		assert.NoError(t, err)
		for _, f := range []func() (*http.Response, error){
			func() (*http.Response, error) { return x.Do(p) },
			func() (*http.Response, error) { return x.Get("x") },
			func() (*http.Response, error) { return x.Head("x") },
			func() (*http.Response, error) { return x.Post("x", "text/plain", nil) },
			func() (*http.Response, error) { return x.PostForm("x", url.Values{}) },
		} {
			resp, err := f()
			assert.NoError(t, err)
			assert.Same(t, ok, resp)
		}
		assert.NotPanics(t, x.CloseIdleConnections)
		m.AssertExpectations(t)
	})
	t.Run("Doer with CloseIdleConnections", func(t *testing.T) {
		m := &mockDoerWithCloseIdleConnections{}
		m.Test(t)
		m.On("CloseIdleConnections").Once()
		Inflate(m).CloseIdleConnections()
		m.AssertExpectations(t)
	})
}

type mockDoer struct {
	mock.Mock
}

func newMockDoer(t *testing.T) *mockDoer {
	m := &mockDoer{}
	m.Test(t)
	return m
}

func (m *mockDoer) Do(p *request.Plan) (*http.Response, error) {
	args := m.Called(p)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

type mockDoerWithCloseIdleConnections struct {
	mockDoer
}

func (m *mockDoerWithCloseIdleConnections) CloseIdleConnections() {
	m.Called()
}

func TestExecutorResultSemantics(t *testing.T) {
	calls := []struct {
		name   string
		action func(e Executor) (*http.Response, error)
	}{
		{"Get", func(e Executor) (*http.Response, error) { return e.Get("http://example.com") }},
		{"Head", func(e Executor) (*http.Response, error) { return e.Head("http://example.com") }},
		{"Post", func(e Executor) (*http.Response, error) {
			return e.Post("http://example.com", "text/plain", "ham")
		}},
		{"PostForm", func(e Executor) (*http.Response, error) {
			return e.PostForm("http://example.com", url.Values{"ham": {"eggs"}})
		}},
	}

	for _, call := range calls {
		t.Run(call.name, func(t *testing.T) {
			t.Run("exempt status", func(t *testing.T) {
				mockDoer := newMockHTTPDoer(t)
				mockDoer.On("Do", mock.Anything).Return(&http.Response{
					StatusCode: 404,
					Body:       io.NopCloser(strings.NewReader("")),
				}, nil).Once()
				policy, _ := fastPolicy(3)
				e := Inflate(&Client{HTTPDoer: mockDoer, RetryPolicy: policy})

				resp, err := call.action(e)

				assert.NoError(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, 404, resp.StatusCode)
				mockDoer.AssertExpectations(t)
			})
			t.Run("exhausted", func(t *testing.T) {
				mockDoer := newMockHTTPDoer(t)
				mockDoer.On("Do", mock.Anything).Return(&http.Response{
					StatusCode: 503,
					Body:       io.NopCloser(strings.NewReader("")),
				}, nil).Times(2)
				policy, _ := fastPolicy(2)
				e := Inflate(&Client{HTTPDoer: mockDoer, RetryPolicy: policy})

				resp, err := call.action(e)

				assert.Nil(t, resp)
				var exhausted *ExhaustedError
				require.True(t, errors.As(err, &exhausted))
				assert.Equal(t, 2, exhausted.Attempts)
				var statusErr *StatusError
				assert.True(t, errors.As(err, &statusErr))
				mockDoer.AssertExpectations(t)
			})
		})
	}
}
