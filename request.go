// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiaction

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"

	"github.com/gogama/apiaction/dispatch"
	"github.com/gogama/apiaction/request"
	"github.com/gogama/apiaction/transport"
)

// A State is a point in a Request's lifecycle.
type State int32

const (
	// Idle is the state of a request that has not started building.
	Idle State = iota
	// Building is the state while the request spec is being built.
	Building
	// Pending is the state while the request is in flight.
	Pending
	// Resolved is the terminal state of a request whose response was
	// received and decoded.
	Resolved
	// Rejected is the terminal state of a request that failed.
	Rejected
	// Aborted is the terminal state of a request aborted in flight.
	Aborted
)

var stateNames = []string{
	"Idle",
	"Building",
	"Pending",
	"Resolved",
	"Rejected",
	"Aborted",
}

// String returns the name of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}
	return stateNames[s]
}

// Terminal reports whether s is Resolved, Rejected or Aborted.
func (s State) Terminal() bool {
	return s >= Resolved && int(s) < len(stateNames)
}

// A Response is the outcome a Request reports to notifications and
// hooks.
type Response struct {
	// Body is the decoded body: a string unless the response had a
	// JSON content type, in which case it is the decoded JSON value.
	// When JSON decoding fails Body holds the raw text.
	Body interface{}

	// StatusCode is the HTTP status code, or zero if no response was
	// received.
	StatusCode int

	// Header is the response header, or nil if no response was
	// received.
	Header http.Header

	// Error is the reason a request failed or was aborted. It is a
	// *codec.DecodeError for malformed JSON, a *transport.StatusError
	// for status codes of 400 and above, ErrAborted for aborted
	// requests, and the transport error otherwise.
	Error error
}

// A Notification is the action dispatched for a lifecycle phase.
// Response is nil for the pending notification.
type Notification struct {
	Type     dispatch.Type
	Request  *Request
	Response *Response
}

// ActionType implements dispatch.Action.
func (n *Notification) ActionType() dispatch.Type {
	return n.Type
}

// A Request is the handle for one invocation of an action.
//
// The exported fields other than Response, Err and End are set before
// the action returns. Response, Err and End are set when the request
// reaches a terminal state and may only be read once Done is closed, or
// from inside a terminal phase handler, notification handler or hook.
type Request struct {
	// ID uniquely identifies the request.
	ID string
	// Endpoint is the name of the invoked endpoint.
	Endpoint string
	// Method and Route are copied from the endpoint.
	Method string
	Route  string
	// Spec is the request built from the action arguments.
	Spec *request.Spec
	// Start is when the request entered Pending.
	Start time.Time
	// End is when the request reached its terminal state.
	End time.Time

	// Response is the response reported to the terminal phase.
	Response *Response
	// Err is nil for resolved requests and otherwise equal to
	// Response.Error.
	Err error

	creator *Creator
	ep      *Endpoint
	logger  log.Interface
	state   int32
	done    chan struct{}

	mu     sync.Mutex
	future transport.Future
}

// Creator returns the display name of the Creator that made r.
func (r *Request) Creator() string {
	if r.creator == nil {
		return ""
	}
	return r.creator.displayName
}

// State returns the current state of the request.
func (r *Request) State() State {
	return State(atomic.LoadInt32(&r.state))
}

// Done returns a channel that is closed once the request has settled:
// it has reached a terminal state and its notification and hook have
// run.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Settled reports whether Done is closed.
func (r *Request) Settled() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the request settles and returns its Response and
// Err.
func (r *Request) Wait() (*Response, error) {
	<-r.done
	return r.Response, r.Err
}

// Duration returns how long the request was, or has been, pending.
func (r *Request) Duration() time.Duration {
	if r.Start.IsZero() {
		return 0
	}
	select {
	case <-r.done:
		return r.End.Sub(r.Start)
	default:
		return time.Since(r.Start)
	}
}

// Abort aborts a pending request. The sender is told to cancel, the
// abort notification is dispatched if configured and the endpoint's
// AbortHook is called, all before Abort returns.
//
// Abort returns false, and does nothing, if the request already left
// the Pending state.
func (r *Request) Abort() bool {
	if !r.transition(Pending, Aborted) {
		return false
	}

	r.mu.Lock()
	f := r.future
	r.mu.Unlock()
	if f != nil {
		f.Cancel()
	}

	r.settle(PhaseAbort, &Response{Error: ErrAborted}, ErrAborted)
	return true
}

func (r *Request) setState(s State) {
	atomic.StoreInt32(&r.state, int32(s))
}

func (r *Request) transition(from, to State) bool {
	return atomic.CompareAndSwapInt32(&r.state, int32(from), int32(to))
}
