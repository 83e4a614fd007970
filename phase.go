// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiaction

// A Phase identifies the lifecycle phase when installing or running a
// Handler.
type Phase int

const (
	// PhasePending identifies the phase entered once the request has
	// been built and before it is handed to the sender.
	//
	// Handlers for PhasePending run on the goroutine that invoked the
	// action, before the pending notification is dispatched.
	PhasePending Phase = iota
	// PhaseSuccess identifies the phase entered when the sender
	// resolved the request and the body decoded cleanly.
	//
	// When a Creator runs PhaseSuccess handlers, the request's
	// Response field is set and its Err field is nil.
	PhaseSuccess
	// PhaseFailure identifies the phase entered when the sender
	// rejected the request, or the response body could not be decoded.
	//
	// When a Creator runs PhaseFailure handlers, the request's Err
	// field is set. The Response field is set too, but its StatusCode
	// is zero if no response was received.
	PhaseFailure
	// PhaseAbort identifies the phase entered when the request was
	// aborted before it settled.
	//
	// PhaseAbort handlers run on the goroutine that called Abort.
	PhaseAbort
	// phaseSentinel provides the total number of phases typed as a
	// Phase.
	phaseSentinel

	// numPhases provides the total number of phases as an int.
	numPhases = int(phaseSentinel)
)

var phaseNames = []string{
	"Pending",
	"Success",
	"Failure",
	"Abort",
}

// Phases returns a slice containing all phases, pending first and the
// terminal phases after it.
func Phases() []Phase {
	return []Phase{
		PhasePending,
		PhaseSuccess,
		PhaseFailure,
		PhaseAbort,
	}
}

// Name returns the name of the phase.
func (p Phase) Name() string {
	return phaseNames[int(p)]
}

// String returns the name of the phase.
func (p Phase) String() string {
	return p.Name()
}

// Terminal reports whether p ends a request's lifecycle.
func (p Phase) Terminal() bool {
	return p != PhasePending
}
