// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"net/url"
	"strings"
)

// A StatusError reports a response whose status code is 400 or above.
type StatusError struct {
	StatusCode int
	Status     string
}

func (err *StatusError) Error() string {
	status := err.Status
	if status == "" {
		status = fmt.Sprint(err.StatusCode)
	}
	return "apiaction/transport: request failed with status " + status
}

func urlErrorWrap(method, u string, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(method),
		URL: u,
		Err: err,
	}
}

// urlErrorOp follows net/http/client.go.
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
