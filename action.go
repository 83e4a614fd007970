// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiaction

import (
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gogama/apiaction/codec"
	"github.com/gogama/apiaction/dispatch"
	"github.com/gogama/apiaction/request"
	"github.com/gogama/apiaction/transport"
)

// An Action invokes one endpoint. It returns as soon as the request is
// in flight. The only errors it returns are *UsageError values, in
// which case nothing was dispatched or sent.
type Action func(args ...interface{}) (*Request, error)

func (c *Creator) bind(name string, ep *Endpoint) Action {
	return func(args ...interface{}) (*Request, error) {
		return c.invoke(name, ep, args)
	}
}

func (c *Creator) invoke(name string, ep *Endpoint, args []interface{}) (*Request, error) {
	r := &Request{
		ID:       uuid.NewString(),
		Endpoint: name,
		Method:   ep.Method,
		Route:    ep.Route,
		creator:  c,
		ep:       ep,
		done:     make(chan struct{}),
	}
	r.logger = c.logger.WithFields(log.Fields{
		"creator":  c.displayName,
		"endpoint": name,
		"request":  r.ID,
		"method":   r.Method,
		"route":    r.Route,
	})

	r.setState(Building)
	spec, err := request.Build(ep.CreateRequest, args...)
	if err != nil {
		r.logger.WithError(err).Debug("apiaction: request not built")
		return nil, &UsageError{Endpoint: name, Err: err}
	}
	r.Spec = spec

	r.Start = time.Now()
	r.setState(Pending)
	r.logger.Debug("apiaction: request pending")
	// A pending observer may abort the request at either step.
	c.handlers.run(PhasePending, r)
	if r.State() != Pending {
		return r, nil
	}
	if ep.Pending != "" {
		c.dispatcher.Dispatch(&Notification{Type: ep.Pending, Request: r})
	}
	if r.State() != Pending {
		return r, nil
	}

	f := c.sender.Send(c.ctx, r.Method, r.Route, spec)
	r.mu.Lock()
	r.future = f
	r.mu.Unlock()
	if r.State() == Aborted {
		f.Cancel()
	}

	go r.await(f)
	return r, nil
}

func (r *Request) await(f transport.Future) {
	res, err := f.Result()

	out := &Response{}
	if res != nil {
		out.StatusCode = res.StatusCode
		out.Header = res.Header
		body, decodeErr := codec.Decode(res.ContentType(), res.Body)
		out.Body = body
		if err == nil {
			err = decodeErr
		}
	}

	phase, to := PhaseSuccess, Resolved
	if err != nil {
		out.Error = err
		phase, to = PhaseFailure, Rejected
	}
	if !r.transition(Pending, to) {
		r.logger.WithField("state", r.State()).
			Debug("apiaction: discarding outcome of settled request")
		return
	}
	r.settle(phase, out, err)
}

// settle runs the side effects of the terminal phase p. Only the
// goroutine that won the transition out of Pending calls it.
func (r *Request) settle(p Phase, res *Response, err error) {
	defer close(r.done)

	r.End = time.Now()
	r.Response = res
	r.Err = err

	logger := r.logger.WithFields(log.Fields{
		"phase":    p,
		"status":   res.StatusCode,
		"duration": r.End.Sub(r.Start),
	})
	if err != nil {
		logger.WithError(err).Warn("apiaction: request settled")
	} else {
		logger.Debug("apiaction: request settled")
	}

	c := r.creator
	r.safely(logger, "handlers", func() { c.handlers.run(p, r) })

	var t dispatch.Type
	var hook func()
	switch p {
	case PhaseSuccess:
		t = r.ep.Success
		if h, ok := r.ep.Hooks.(SuccessHook); ok {
			hook = func() { h.OnSuccess(r, res) }
		}
	case PhaseFailure:
		t = r.ep.Failure
		if h, ok := r.ep.Hooks.(FailureHook); ok {
			hook = func() { h.OnFailure(r, res) }
		}
	case PhaseAbort:
		t = r.ep.Abort
		if h, ok := r.ep.Hooks.(AbortHook); ok {
			hook = func() { h.OnAbort(r, res) }
		}
	}

	if t != "" {
		r.safely(logger, "dispatch", func() {
			c.dispatcher.Dispatch(&Notification{Type: t, Request: r, Response: res})
		})
	}
	if hook != nil {
		r.safely(logger, "hook", hook)
	}
}

// safely runs f, logging instead of propagating a panic so that the
// request still settles.
func (r *Request) safely(logger log.Interface, what string, f func()) {
	defer func() {
		if v := recover(); v != nil {
			err, ok := v.(error)
			if !ok {
				err = errors.Errorf("%v", v)
			}
			logger.WithError(errors.WithStack(err)).
				WithField("in", what).
				Error("apiaction: recovered from panic")
		}
	}()
	f()
}
