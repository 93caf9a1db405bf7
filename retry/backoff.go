// Copyright 2021 The retryhttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import "time"

// NextDelay returns the delay that follows d: twice d, capped at
// MaxDelay. Doubling never overflows, since anything past half of
// MaxDelay is simply capped.
func (p *Policy) NextDelay(d time.Duration) time.Duration {
	if d > p.MaxDelay/2 {
		return p.MaxDelay
	}
	return d * 2
}

// Delay returns the backoff delay after the failed attempt with
// zero-based index attempt, min(MaxDelay, InitialDelay * 2**attempt).
func (p *Policy) Delay(attempt int) time.Duration {
	d := p.InitialDelay
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	for i := 0; i < attempt && d < p.MaxDelay; i++ {
		d = p.NextDelay(d)
	}
	return d
}
