// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport sends endpoint requests for the action creators.

The contract an action creator relies on is small. A Sender starts a
request and returns a Future that settles exactly once and can be
canceled:

	f := sender.Send(ctx, "POST", "/mirror", spec)
	...
	f.Cancel()      // abort
	<-f.Done()
	res, err := f.Result()

Client is the HTTP implementation. It expands the route against
BaseURL, encodes the Spec's query, headers and body, and runs the
attempt loop under its timeout and retry policies:

	client := &transport.Client{
		BaseURL:       "https://api.example.com",
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
	}

The zero value sends through http.DefaultClient, never retries, and
uses timeout.DefaultPolicy. A response with status 400 or above is
reported as a *StatusError alongside the buffered Response; transport
failures are reported as *url.Error.

Promise is a ready-made Future for custom Senders and test doubles.
*/
package transport
