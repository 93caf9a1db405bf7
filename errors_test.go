// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusError(t *testing.T) {
	testCases := []struct {
		name     string
		resp     *http.Response
		expected string
	}{
		{
			name:     "server status",
			resp:     &http.Response{Status: "503 Service Unavailable", StatusCode: 503},
			expected: "HTTP 503 Service Unavailable",
		},
		{
			name:     "custom reason",
			resp:     &http.Response{Status: "500 Kaboom", StatusCode: 500},
			expected: "HTTP 500 Kaboom",
		},
		{
			name:     "no status",
			resp:     &http.Response{StatusCode: 502},
			expected: "HTTP 502 Bad Gateway",
		},
		{
			name:     "unknown code",
			resp:     &http.Response{StatusCode: 599},
			expected: "HTTP 599",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := newStatusError(testCase.resp)
			assert.Same(t, testCase.resp, err.Response)
			assert.Equal(t, testCase.resp.StatusCode, err.StatusCode)
			assert.EqualError(t, err, testCase.expected)
		})
	}
}

func TestExhaustedError(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		last := newStatusError(&http.Response{StatusCode: 500})
		err := error(&ExhaustedError{Attempts: 3, Last: last})
		assert.EqualError(t, err, "retryhttp: retries exhausted after 3 attempts: HTTP 500 Internal Server Error")
		assert.True(t, errors.Is(err, ErrRetriesExhausted))
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Same(t, last, statusErr)
	})
	t.Run("transport", func(t *testing.T) {
		last := &url.Error{Op: "Get", URL: "http://example.com", Err: syscall.ECONNRESET}
		err := error(&ExhaustedError{Attempts: 1, Last: last})
		assert.Contains(t, err.Error(), "after 1 attempt: ")
		assert.True(t, errors.Is(err, syscall.ECONNRESET))
		assert.False(t, errors.Is(err, ErrNoAttempts))
	})
	t.Run("no attempts", func(t *testing.T) {
		err := error(&ExhaustedError{Last: ErrNoAttempts})
		assert.EqualError(t, err, "retryhttp: retries exhausted after 0 attempts: retryhttp: attempt budget is zero")
		assert.True(t, errors.Is(err, ErrNoAttempts))
	})
	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("fetching index: %w", &ExhaustedError{Attempts: 2, Last: ErrNoAttempts})
		assert.True(t, errors.Is(err, ErrRetriesExhausted))
		var exhausted *ExhaustedError
		require.True(t, errors.As(err, &exhausted))
		assert.Equal(t, 2, exhausted.Attempts)
	})
}
