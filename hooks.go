// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiaction

// A SuccessHook is called after a request resolves, following the
// success notification if one is configured.
type SuccessHook interface {
	OnSuccess(*Request, *Response)
}

// A FailureHook is called after a request is rejected, following the
// failure notification if one is configured. The Response's Error
// field holds the reason.
type FailureHook interface {
	OnFailure(*Request, *Response)
}

// An AbortHook is called after a request is aborted, following the
// abort notification if one is configured.
type AbortHook interface {
	OnAbort(*Request, *Response)
}

// Hooks implements SuccessHook, FailureHook and AbortHook with
// optional functions. A nil function is skipped.
type Hooks struct {
	Success func(*Request, *Response)
	Failure func(*Request, *Response)
	Abort   func(*Request, *Response)
}

// OnSuccess calls h.Success if it is set.
func (h Hooks) OnSuccess(r *Request, res *Response) {
	if h.Success != nil {
		h.Success(r, res)
	}
}

// OnFailure calls h.Failure if it is set.
func (h Hooks) OnFailure(r *Request, res *Response) {
	if h.Failure != nil {
		h.Failure(r, res)
	}
}

// OnAbort calls h.Abort if it is set.
func (h Hooks) OnAbort(r *Request, res *Response) {
	if h.Abort != nil {
		h.Abort(r, res)
	}
}
