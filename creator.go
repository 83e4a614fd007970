// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiaction

import (
	"context"
	"sort"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/gogama/apiaction/dispatch"
	"github.com/gogama/apiaction/transport"
)

// A Creator holds one Action per declared endpoint. It is safe for
// concurrent use by multiple goroutines, and the requests of different
// invocations share nothing but the dispatcher and the sender.
type Creator struct {
	displayName string
	actions     map[string]Action
	dispatcher  dispatch.Dispatcher
	sender      transport.Sender
	logger      log.Interface
	handlers    *HandlerGroup
	ctx         context.Context
}

// An Option configures a Creator.
type Option func(*Creator)

// WithDispatcher sets the dispatcher notifications are sent to. It is
// required.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(c *Creator) {
		c.dispatcher = d
	}
}

// WithSender sets the sender requests go through. It is required; a
// *transport.Client is the usual choice.
func WithSender(s transport.Sender) Option {
	return func(c *Creator) {
		c.sender = s
	}
}

// WithLogger sets the logger. The default is log.Log.
func WithLogger(l log.Interface) Option {
	return func(c *Creator) {
		c.logger = l
	}
}

// WithHandlers installs phase handlers observing every request.
func WithHandlers(g *HandlerGroup) Option {
	return func(c *Creator) {
		c.handlers = g
	}
}

// WithContext sets the context every request is sent with. Cancelling
// it fails the requests in flight; it does not abort them. The default
// is context.Background().
func WithContext(ctx context.Context) Option {
	return func(c *Creator) {
		c.ctx = ctx
	}
}

// New validates endpoints and returns a Creator with one Action per
// endpoint. displayName identifies the Creator in errors and logs.
//
// New returns a *ConfigError if an endpoint has no method or route, or
// if the dispatcher or sender option is missing.
func New(displayName string, endpoints Endpoints, opts ...Option) (*Creator, error) {
	c := &Creator{
		displayName: displayName,
		logger:      log.Log,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dispatcher == nil {
		return nil, &ConfigError{DisplayName: displayName, Reason: "no dispatcher"}
	}
	if c.sender == nil {
		return nil, &ConfigError{DisplayName: displayName, Reason: "no sender"}
	}
	if c.logger == nil {
		c.logger = log.Log
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}

	eps, err := validate(displayName, endpoints)
	if err != nil {
		return nil, err
	}
	c.actions = make(map[string]Action, len(eps))
	for name, ep := range eps {
		c.actions[name] = c.bind(name, ep)
	}
	return c, nil
}

// DisplayName returns the display name given to New.
func (c *Creator) DisplayName() string {
	return c.displayName
}

// Names returns the endpoint names in sorted order.
func (c *Creator) Names() []string {
	names := make([]string, 0, len(c.actions))
	for name := range c.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Action returns the action for the named endpoint.
func (c *Creator) Action(name string) (Action, bool) {
	a, ok := c.actions[name]
	return a, ok
}

// MustAction is like Action but panics if there is no such endpoint.
func (c *Creator) MustAction(name string) Action {
	a, ok := c.actions[name]
	if !ok {
		panic("apiaction: " + c.displayName + ": unknown endpoint " + name)
	}
	return a
}

// Invoke invokes the named endpoint's action with args.
func (c *Creator) Invoke(name string, args ...interface{}) (*Request, error) {
	a, ok := c.actions[name]
	if !ok {
		return nil, &UsageError{Endpoint: name, Err: errors.WithStack(ErrUnknownEndpoint)}
	}
	return a(args...)
}
