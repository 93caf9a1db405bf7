// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retryhttp

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gogama/retryhttp/retry"
	"github.com/gogama/retryhttp/transient"
	"github.com/rs/zerolog"
)

// LogRetries returns a retry hook that logs one info-level line per
// retry to logger, for example:
//
//	Retrying https://example.com/a: HTTP 503. 2 attempts left (1000ms backoff)
//	Retrying https://example.com/a: connection refused. 1 attempt left (2000ms backoff)
//
// The target is the URL to print. If it is empty, the URL is taken
// from the response's request or from the *url.Error, whichever is
// available.
//
// This is the hook a Client uses when its retry policy has none.
func LogRetries(logger *zerolog.Logger, target string) retry.Hook {
	return func(attemptsLeft int, delay time.Duration, resp *http.Response, err error) {
		u := target
		if u == "" {
			u = hookURL(resp, err)
		}
		ms := delay.Milliseconds()
		left := attemptsLeftText(attemptsLeft)

		evt := logger.Info().
			Str("url", u).
			Int("attempts_left", attemptsLeft).
			Int64("backoff_ms", ms)

		if resp != nil {
			evt.Int("status", resp.StatusCode).
				Msgf("Retrying %s: HTTP %d. %s (%dms backoff)", u, resp.StatusCode, left, ms)
			return
		}

		evt.Err(err).
			Stringer("category", transient.Categorize(err)).
			Msgf("Retrying %s: %s. %s (%dms backoff)", u, causeText(err), left, ms)
	}
}

func attemptsLeftText(n int) string {
	switch {
	case n < 0:
		return "unlimited attempts left"
	case n == 1:
		return "1 attempt left"
	default:
		return strconv.Itoa(n) + " attempts left"
	}
}

func hookURL(resp *http.Response, err error) string {
	if resp != nil && resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.URL
	}
	return ""
}

// causeText strips the *url.Error wrapper so the URL is not printed
// twice.
func causeText(err error) string {
	if err == nil {
		return "<nil>"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// callHook runs hook, recovering from and logging any panic so that a
// faulty observer cannot break the retry loop.
func callHook(logger *zerolog.Logger, hook retry.Hook, attemptsLeft int, delay time.Duration, resp *http.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().
				Interface("panic", r).
				Int("attempts_left", attemptsLeft).
				Msg("retryhttp: retry hook panicked")
		}
	}()
	hook(attemptsLeft, delay, resp, err)
}
