// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the request-side types shared by the action
creators and the transport: Spec (what a caller wants sent) and
Execution (the state of sending it).

A Spec is produced fresh for every action invocation, either empty or
by the endpoint's Transform:

	t := func(args ...interface{}) *request.Spec {
		return &request.Spec{
			Params: map[string]interface{}{"id": args[0]},
		}
	}
	spec, err := request.Build(t, 42)

Build refuses arguments when there is no transform, so that caller
intent is never silently discarded:

	_, err := request.Build(nil, "hi", "mom")
	errors.Is(err, request.ErrArgsWithoutTransform) // true

For endpoints described declaratively, Positional and its shorthands
ArgsToQuery, ArgsToParams and ArgsToBody map positional arguments onto
Spec fields by name.

An Execution is owned by the transport. Retry and timeout policies read
it to decide what to do after each HTTP attempt.
*/
package request
