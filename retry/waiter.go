// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gogama/apiaction/request"
)

// A Waiter says how long to wait before retrying a failed attempt.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultWaiter is a jittered exponential backoff starting at 50
// milliseconds and capped at 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter returns a Waiter that always waits d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter returns a Waiter implementing exponential backoff with
// optional "Full Jitter" (see
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter).
//
// The ceiling for attempt n is min(base * 2**n, max). Without jitter
// the waiter returns the ceiling. With jitter it returns a random
// duration in [0, ceiling). Pass nil for no jitter, or a seed (time.Time,
// int, int64), a rand.Source or a *rand.Rand.
//
// NewExpWaiter panics unless 0 < base <= max.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("apiaction/retry: base must be positive")
	}
	if max < base {
		panic("apiaction/retry: max must be at least base")
	}
	return &expWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type expWaiter struct {
	base time.Duration
	max  time.Duration
	lock sync.Mutex
	rand *rand.Rand
}

func (w *expWaiter) Wait(e *request.Execution) time.Duration {
	ceil := w.max
	if e.Attempt < 63 {
		if c := w.base << uint(e.Attempt); c > 0 && c>>uint(e.Attempt) == w.base && c < w.max {
			ceil = c
		}
	}

	if w.rand == nil {
		return ceil
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("apiaction/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("apiaction/retry: invalid jitter type")
	}
	return rand.New(s)
}
