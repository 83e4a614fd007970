// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"

	"github.com/gogama/apiaction/transient"
)

// An Execution is the state of the transport while it sends one Spec.
//
// The transport creates an Execution per action invocation and updates
// it after every HTTP attempt. Retry and timeout policies receive it to
// make their decisions and must treat it as read-only.
type Execution struct {
	// Method is the HTTP method of the endpoint.
	Method string

	// URL is the fully expanded request URL, query included.
	URL string

	// Spec is the request specification being sent. It is never nil.
	Spec *Spec

	// Start is the time the execution started. It is zero until the
	// first attempt begins.
	Start time.Time

	// End is the time the execution ended. It is zero while the
	// execution is in flight.
	End time.Time

	// Attempt is the zero-based number of the current attempt: zero for
	// the initial attempt, one for the first retry and so on.
	Attempt int

	// AttemptTimeouts counts the attempts that ended in a timeout.
	AttemptTimeouts int

	// Request is the HTTP request of the current or most recent attempt.
	Request *http.Request

	// Response is the HTTP response of the most recent attempt. It is
	// nil if that attempt ended in error before headers arrived.
	Response *http.Response

	// Err is the error of the most recent attempt, if any. Once the
	// execution has ended it is the error the transport reports.
	Err error

	// Body is the complete response body of the most recent attempt.
	Body []byte
}

// StatusCode returns the status code of the most recent response, or 0
// if there is none.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the headers of the most recent response, or a nil
// header if there is none. A nil header is safe to read.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		return nil
	}

	return e.Response.Header
}

// Duration returns how long the execution has been running, or ran
// for if it has ended. It is zero before the execution starts.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return 0
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout indicates whether Err is a timeout, either of the attempt or
// of the caller's context.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// Canceled indicates whether Err reports that the caller's context was
// canceled, which is how an aborted request ends.
func (e *Execution) Canceled() bool {
	return transient.Categorize(e.Err) == transient.Canceled
}
