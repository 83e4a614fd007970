// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/apiaction/request"
)

// A Policy sets the timeout of each HTTP attempt the transport makes,
// the initial one and any retries.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout for the next attempt of e.
	Timeout(e *request.Execution) time.Duration
}

// The PolicyFunc type is an adapter to allow the use of ordinary
// functions as timeout policies.
type PolicyFunc func(e *request.Execution) time.Duration

// Timeout calls f(e).
func (f PolicyFunc) Timeout(e *request.Execution) time.Duration {
	return f(e)
}

// DefaultPolicy sets a fixed 30 second timeout on every attempt.
var DefaultPolicy Policy = Fixed(30 * time.Second)

// Infinite never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed uses d for every attempt.
func Fixed(d time.Duration) Policy {
	return adaptive([]time.Duration{d})
}

// Adaptive uses usual for the initial attempt and for any retry whose
// preceding attempt did not time out. After a timed-out attempt it
// uses after[k-1], where k counts the timeouts so far, sticking to the
// last element once they run out.
//
//	p := Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// p waits 200ms usually, 1s after the first timeout, and 10s after any
// later one.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return adaptive(append(p, after...))
}

type adaptive []time.Duration

func (p adaptive) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return p[0]
	}

	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
