// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry defines the retry Policy used by the retrying HTTP
// client: how many attempts to make, how the backoff delay grows, which
// responses end an execution without a retry, and the hook that
// observes each retry.
//
// A Policy is plain configuration. Start from DefaultPolicy and adjust
// fields, or build one from a JSON or YAML Config (see LoadConfig):
//
//	p := retry.DefaultPolicy()
//	p.MaxAttempts = 5
//	p.InitialDelay = 250 * time.Millisecond
//	p.MaxDelay = 2 * time.Second
//	p.ExemptStatusCodes = []int{400, 404}
//
// The backoff delay starts at InitialDelay and doubles after every
// failed attempt, capped at MaxDelay:
//
//	delay(k) = min(MaxDelay, InitialDelay * 2**k)
//
// A response ends the execution if its status is 2XX or is one of the
// exempt status codes. Exempt responses are returned to the caller as
// ordinary responses, not errors. Set Policy.Decider to replace this
// classification.
package retry
