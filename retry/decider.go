// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/apiaction/request"
	"github.com/gogama/apiaction/transient"
)

// A Decider decides whether a failed attempt should be retried.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as deciders. DeciderFuncs compose with And and Or.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of retries DefaultDecider allows.
const DefaultTimes = 3

// DefaultDecider allows up to DefaultTimes retries after a transient
// error or a 429, 502, 503 or 504 response. It never retries once the
// request has been canceled.
var DefaultDecider = Times(DefaultTimes).And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr retries when the attempt error is transient according to
// transient.Categorize. Canceled requests are not transient.
var TransientErr DeciderFunc = transientErr

// Decide calls f(e).
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And returns a decider that is true when both f and g are. g is not
// evaluated when f is false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or returns a decider that is true when either f or g is. g is not
// evaluated when f is true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times allows up to n retries.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before allows retries until d has elapsed since the execution
// started.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode retries when the most recent attempt received a response
// with one of the status codes ss.
func StatusCode(ss ...int) DeciderFunc {
	codes := make(map[int]bool, len(ss))
	for _, s := range ss {
		codes[s] = true
	}
	return func(e *request.Execution) bool {
		return e.Response != nil && codes[e.StatusCode()]
	}
}

func transientErr(e *request.Execution) bool {
	return transient.Categorize(e.Err).Transient()
}
