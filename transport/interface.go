// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"mime"
	"net/http"

	"github.com/gogama/apiaction/request"
)

// An HTTPDoer sends HTTP requests the way http.Client does.
type HTTPDoer interface {
	Do(r *http.Request) (*http.Response, error)
}

// A Sender starts sending one request and returns immediately.
//
// Cancelling ctx has the same effect as calling Cancel on the returned
// Future.
type Sender interface {
	Send(ctx context.Context, method, route string, spec *request.Spec) Future
}

// The SenderFunc type is an adapter to allow the use of ordinary
// functions as Senders.
type SenderFunc func(ctx context.Context, method, route string, spec *request.Spec) Future

// Send calls f(ctx, method, route, spec).
func (f SenderFunc) Send(ctx context.Context, method, route string, spec *request.Spec) Future {
	return f(ctx, method, route, spec)
}

// A Future is the pending outcome of a Send. It settles exactly once.
type Future interface {
	// Done returns a channel closed when the future settles.
	Done() <-chan struct{}
	// Result blocks until the future settles and returns its outcome.
	// The Response may be non-nil even when the error is not, for
	// example with a *StatusError.
	Result() (*Response, error)
	// Cancel asks the sender to stop. It is safe to call more than
	// once and after settlement.
	Cancel()
}

// A Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Proto      string
	Header     http.Header
	Body       []byte
}

// ContentType returns the Content-Type header of the response.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// MediaType returns the media type of the response, without
// parameters, or "" if there is none or it does not parse.
func (r *Response) MediaType() string {
	mediaType, _, err := mime.ParseMediaType(r.ContentType())
	if err != nil {
		return ""
	}
	return mediaType
}
