// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiaction

// A HandlerGroup is a group of phase handler chains which can be
// installed in a Creator with WithHandlers.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds a handler to the back of the handler chain for a
// specific phase.
func (g *HandlerGroup) PushBack(p Phase, h Handler) {
	if h == nil {
		panic("apiaction: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numPhases)
	}

	g.handlers[p] = append(g.handlers[p], h)
}

// PushBackAll adds h to the back of every phase's handler chain.
func (g *HandlerGroup) PushBackAll(h Handler) {
	for _, p := range Phases() {
		g.PushBack(p, h)
	}
}

func (g *HandlerGroup) run(p Phase, r *Request) {
	if g == nil {
		return
	}
	i := int(p)
	if i < len(g.handlers) {
		for _, h := range g.handlers[i] {
			h.Handle(p, r)
		}
	}
}

// A Handler observes a request entering a lifecycle phase.
//
// Handlers run synchronously inside the lifecycle, so they should be
// quick and must not block.
type Handler interface {
	Handle(Phase, *Request)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as phase handlers.
type HandlerFunc func(Phase, *Request)

// Handle calls f(p, r).
func (f HandlerFunc) Handle(p Phase, r *Request) {
	f(p, r)
}
