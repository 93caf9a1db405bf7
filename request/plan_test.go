// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := NewPlan("", "http://example.com:/posts/1", nil)
		require.NoError(t, err)
		assert.Equal(t, "GET", p.Method)
		assert.Equal(t, "example.com", p.Host)
		assert.Equal(t, "/posts/1", p.URL.Path)
		assert.NotNil(t, p.Header)
		assert.Nil(t, p.Body)
		assert.Same(t, context.Background(), p.Context())
	})
	t.Run("body", func(t *testing.T) {
		p, err := NewPlan("POST", "http://example.com", strings.NewReader("foo"))
		require.NoError(t, err)
		assert.Equal(t, []byte("foo"), p.Body)
	})
	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck
		p, err := NewPlanWithContext(nil, "GET", "http://example.com", nil)
		assert.Nil(t, p)
		assert.EqualError(t, err, nilCtxMsg)
	})
	t.Run("invalid method", func(t *testing.T) {
		p, err := NewPlan("GE T", "http://example.com", nil)
		assert.Nil(t, p)
		assert.EqualError(t, err, `retryhttp/request: invalid method "GE T"`)
	})
	t.Run("invalid URL", func(t *testing.T) {
		p, err := NewPlan("GET", ":", nil)
		assert.Nil(t, p)
		assert.Error(t, err)
	})
	t.Run("invalid body", func(t *testing.T) {
		p, err := NewPlan("PUT", "http://example.com", 10)
		assert.Nil(t, p)
		assert.EqualError(t, err, badBodyTypeMsg)
	})
}

func TestFromRequest(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		r, err := http.NewRequestWithContext(ctx, "DELETE", "http://example.com/x", nil)
		require.NoError(t, err)
		r.Header.Set("X-Foo", "bar")
		p, err := FromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "DELETE", p.Method)
		assert.Same(t, r.URL, p.URL)
		assert.Equal(t, "bar", p.Header.Get("X-Foo"))
		assert.Nil(t, p.Body)
		assert.Same(t, ctx, p.Context())
		p.Header.Set("X-Foo", "baz")
		assert.Equal(t, "bar", r.Header.Get("X-Foo"))
	})
	t.Run("GetBody", func(t *testing.T) {
		r, err := http.NewRequest("POST", "http://example.com", bytes.NewReader([]byte("hello")))
		require.NoError(t, err)
		require.NotNil(t, r.GetBody)
		p, err := FromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), p.Body)
	})
	t.Run("plain body", func(t *testing.T) {
		m := &mockReadCloser{}
		m.Test(t)
		m.On("Read", mock.Anything).Return(0, io.EOF).Once()
		m.On("Close").Return(nil).Once()
		r, err := http.NewRequest("POST", "http://example.com", nil)
		require.NoError(t, err)
		r.Body = m
		p, err := FromRequest(r)
		require.NoError(t, err)
		assert.Empty(t, p.Body)
		m.AssertExpectations(t)
	})
	t.Run("body read error", func(t *testing.T) {
		expectedErr := errors.New("torn")
		m := &mockReadCloser{}
		m.Test(t)
		m.On("Read", mock.Anything).Return(0, expectedErr).Once()
		m.On("Close").Return(nil).Once()
		r, err := http.NewRequest("POST", "http://example.com", nil)
		require.NoError(t, err)
		r.Body = m
		p, err := FromRequest(r)
		assert.Nil(t, p)
		assert.Same(t, expectedErr, err)
		m.AssertExpectations(t)
	})
	t.Run("nil URL", func(t *testing.T) {
		p, err := FromRequest(&http.Request{})
		assert.Nil(t, p)
		assert.Error(t, err)
	})
}

func TestPlan_WithContext(t *testing.T) {
	p, err := NewPlan("GET", "http://example.com", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := p.WithContext(ctx)
	assert.NotSame(t, p, q)
	assert.Same(t, ctx, q.Context())
	assert.Same(t, context.Background(), p.Context())
	//nolint:staticcheck
	assert.PanicsWithValue(t, nilCtxMsg, func() { p.WithContext(nil) })
}

func TestPlan_SetBasicAuth(t *testing.T) {
	p, err := NewPlan("", "http://superdoopersecure.com", nil)
	require.NoError(t, err)
	r, err := http.NewRequest("", "http://superdoopersecure.com", nil)
	require.NoError(t, err)
	p.SetBasicAuth("patsy", "password")
	r.SetBasicAuth("patsy", "password")
	assert.Equal(t, "Basic cGF0c3k6cGFzc3dvcmQ=", p.Header.Get("Authorization"))
	assert.Equal(t, r.Header["Authorization"], p.Header["Authorization"])
}

func TestPlan_ToRequest(t *testing.T) {
	p, err := NewPlan("PUT", "http://example.com/a?b=c", "payload")
	require.NoError(t, err)
	p.Header.Set("Content-Type", "text/plain")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r1 := p.ToRequest(ctx)
	r2 := p.ToRequest(ctx)

	assert.Same(t, ctx, r1.Context())
	assert.Equal(t, "PUT", r1.Method)
	assert.Equal(t, "http://example.com/a?b=c", r1.URL.String())
	assert.NotSame(t, p.URL, r1.URL)
	assert.Equal(t, "example.com", r1.Host)
	assert.Equal(t, int64(7), r1.ContentLength)

	b1, err := io.ReadAll(r1.Body)
	require.NoError(t, err)
	b2, err := io.ReadAll(r2.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b1))
	assert.Equal(t, "payload", string(b2))

	rc, err := r1.GetBody()
	require.NoError(t, err)
	b3, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b3))

	r1.Header.Set("Content-Type", "application/json")
	assert.Equal(t, "text/plain", p.Header.Get("Content-Type"))
	assert.Equal(t, "text/plain", r2.Header.Get("Content-Type"))

	empty, err := NewPlan("GET", "http://example.com", nil)
	require.NoError(t, err)
	r3 := empty.ToRequest(context.Background())
	assert.Nil(t, r3.Body)
	assert.Nil(t, r3.GetBody)
}

func TestBodyBytes(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		b, err := BodyBytes(nil)
		assert.Nil(t, b)
		assert.NoError(t, err)
		b, err = BodyBytes("foo")
		assert.Equal(t, []byte("foo"), b)
		assert.NoError(t, err)
		b, err = BodyBytes([]byte("bar"))
		assert.Equal(t, []byte("bar"), b)
		assert.NoError(t, err)
		b, err = BodyBytes(strings.NewReader("baz"))
		assert.Equal(t, []byte("baz"), b)
		assert.NoError(t, err)
		b, err = BodyBytes(io.NopCloser(bytes.NewReader([]byte("qux"))))
		assert.Equal(t, []byte("qux"), b)
		assert.NoError(t, err)
	})
	t.Run("Close error", func(t *testing.T) {
		expectedErr := errors.New("difficult conversation")
		m := &mockReadCloser{}
		m.Test(t)
		m.On("Read", mock.Anything).Return(0, io.EOF).Once()
		m.On("Close").Return(expectedErr).Once()
		b, err := BodyBytes(m)
		assert.Nil(t, b)
		assert.Same(t, expectedErr, err)
		m.AssertExpectations(t)
	})
}

type mockReadCloser struct {
	mock.Mock
}

func (m *mockReadCloser) Read(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
