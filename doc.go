// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package retryhttp provides an HTTP client which retries failed requests
with capped exponential backoff, behind a simple and familiar interface.

Create a Client to begin making requests.

	client := &retryhttp.Client{}
	resp, err := client.Get("https://www.example.com")
	...
	resp, err := client.Post("https://www.example.com/upload",
		"application/json", &buf)
	...
	resp, err := client.PostForm("http://example.com/form",
		url.Values{"key": {"Value"}, "id": {"123"}})

An attempt fails if it ends in a transport error or returns a status
that is neither 2XX nor exempt. A failed attempt is retried after a
backoff delay that starts at the policy's initial delay and doubles up
to its maximum delay. The zero Client retries without bound, waiting 1s,
2s, 4s, 5s, 5s, and so on, and never retries client errors such as 404.

For control over the attempt budget and the backoff, set a retry
policy, built directly or loaded from a JSON config with package retry:

	client := &retryhttp.Client{
		RetryPolicy: &retry.Policy{
			MaxAttempts:       5,
			InitialDelay:      250 * time.Millisecond,
			MaxDelay:          5 * time.Second,
			ExemptStatusCodes: retry.DefaultExemptStatusCodes(),
		},
	}

When the budget runs out, the error is an *ExhaustedError which matches
ErrRetriesExhausted and unwraps to the last failure:

	var statusErr *retryhttp.StatusError
	if errors.As(err, &statusErr) {
		...
	}

For control over how individual attempts are sent, use a custom
HTTPDoer, for example a standard http.Client with its own timeout:

	client := &retryhttp.Client{
		HTTPDoer: &http.Client{Timeout: 10 * time.Second},
	}

Every retry is reported to the policy's OnRetry hook. With no hook set,
the client logs each retry through zerolog; see LogRetries.

To hook into the finer details of an execution, install a handler into
the appropriate handler chain:

	handlers := &retryhttp.HandlerGroup{}
	handlers.PushBack(retryhttp.BeforeAttempt, retryhttp.HandlerFunc(
		func(_ retryhttp.Event, e *request.Execution) {
			log.Printf("Attempt %d to %s", e.Attempt, e.Request.URL)
		}),
	)
	client := &retryhttp.Client{
		Handlers: handlers,
	}

Code written against http.Client can get retries through Transport:

	retryhttp.Install(httpClient, retry.DefaultPolicy())
*/
package retryhttp
