// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package apiaction turns a declarative description of HTTP endpoints into
action creators: functions which send one request per call and report
its lifecycle as notifications on a dispatcher.

Describe the endpoints and build a Creator:

	registry := dispatch.NewRegistry()
	creator, err := apiaction.New("pets", apiaction.Endpoints{
		"getPet": {
			Method:        "GET",
			Route:         "/pets/:id",
			Pending:       "PET_PENDING",
			Success:       "PET_OK",
			Failure:       "PET_FAILED",
			CreateRequest: request.ArgsToParams("id"),
		},
	},
		apiaction.WithDispatcher(registry),
		apiaction.WithSender(&transport.Client{BaseURL: "http://localhost:8080"}),
	)

Then invoke an action. The call returns as soon as the request is on
its way; the outcome arrives on the dispatcher and through the
endpoint's hooks:

	r, err := creator.Invoke("getPet", 42)
	...
	r.Abort() // changed my mind

Each Request moves through the states Idle, Building, Pending and then
exactly one of Resolved, Rejected or Aborted. The first terminal
transition wins: a response arriving after Abort is discarded, and
Abort after the response has been handled does nothing.

An empty notification type for a phase means nothing is dispatched for
that phase. Hooks run regardless of which notification types are set.

To observe every request of a Creator, for example to export metrics,
install a Handler for one or more phases with WithHandlers.
*/
package apiaction
