// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package dispatch provides the broadcast channel that action creators
// publish lifecycle notifications on.
//
// The Dispatcher interface is all an action creator needs. Registry is
// an in-process implementation safe for concurrent use: handlers may be
// registered and unregistered while other goroutines dispatch.
//
//	reg := dispatch.NewRegistry()
//	token := reg.Register(dispatch.HandlerFunc(func(a dispatch.Action) {
//		fmt.Println(a.ActionType())
//	}))
//	defer reg.Unregister(token)
package dispatch

import (
	"sync"

	"github.com/google/uuid"
)

// A Type identifies a kind of notification. Types are opaque strings
// chosen by whoever declares the endpoints.
type Type string

// An Action is a notification broadcast to every registered handler.
type Action interface {
	ActionType() Type
}

// A Token identifies a registered handler.
type Token string

// A Dispatcher delivers actions to registered handlers.
type Dispatcher interface {
	// Register adds h and returns the token to unregister it with.
	Register(h Handler) Token
	// Unregister removes the handler registered under t. Unknown
	// tokens are ignored.
	Unregister(t Token)
	// Dispatch delivers a to every registered handler.
	Dispatch(a Action)
}

// A Handler handles dispatched actions.
type Handler interface {
	Handle(Action)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as action handlers.
type HandlerFunc func(Action)

// Handle calls f(a).
func (f HandlerFunc) Handle(a Action) {
	f(a)
}

type entry struct {
	token   Token
	handler Handler
}

// A Registry is an in-process Dispatcher. Its zero value is ready to
// use.
//
// Dispatch calls handlers synchronously on the dispatching goroutine,
// in registration order, against a snapshot of the registrations taken
// when Dispatch starts. Handlers may therefore register, unregister or
// dispatch themselves without deadlocking.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds h to the registry. It panics if h is nil.
func (r *Registry) Register(h Handler) Token {
	if h == nil {
		panic("apiaction/dispatch: nil handler")
	}

	t := Token(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{token: t, handler: h})
	return t
}

// Unregister removes the handler registered under t.
func (r *Registry) Unregister(t Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].token == t {
			// Copy so snapshots held by running dispatches stay intact.
			entries := make([]entry, 0, len(r.entries)-1)
			entries = append(entries, r.entries[:i]...)
			r.entries = append(entries, r.entries[i+1:]...)
			return
		}
	}
}

// Dispatch delivers a to every registered handler.
func (r *Registry) Dispatch(a Action) {
	r.mu.RLock()
	snapshot := r.entries
	r.mu.RUnlock()

	for _, e := range snapshot {
		e.handler.Handle(a)
	}
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
