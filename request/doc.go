// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan and Execution.

A Plan is the logical request the retrying client is asked to make: a
URL plus method, headers and a pre-buffered body. Since a failed
attempt may be repeated, the plan is never consumed; every attempt gets
its own http.Request built with Plan.ToRequest.

	p, err := request.NewPlan("GET", "https://example.com", nil)
	...
	resp, err := client.Do(p)

The plan's context bounds the whole execution, including backoff waits,
so cancelling it stops an execution that would otherwise keep retrying:

	p, err := request.NewPlanWithContext(ctx, "POST", "https://example.com/upload", body)

An Execution tracks one run of a plan: the number of attempts used, the
current backoff delay, and the last attempt's response or error. The
client creates it and passes it to event handlers.
*/
package request
