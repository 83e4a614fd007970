// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiaction

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAborted is the error of a request that was aborted before it
	// settled.
	ErrAborted = errors.New("apiaction: request aborted")

	// ErrUnknownEndpoint is wrapped by the UsageError Creator.Invoke
	// returns for a name the Creator does not have.
	ErrUnknownEndpoint = errors.New("apiaction: unknown endpoint")
)

// A ConfigError reports an invalid Creator configuration. New returns
// it and no Creator.
type ConfigError struct {
	// DisplayName is the display name given to New.
	DisplayName string
	// Endpoint is the offending endpoint name, or "" when the problem
	// is not specific to one endpoint.
	Endpoint string
	// Reason describes the problem.
	Reason string
}

func (err *ConfigError) Error() string {
	if err.Endpoint == "" {
		return fmt.Sprintf("apiaction: %s: %s", err.DisplayName, err.Reason)
	}
	return fmt.Sprintf("apiaction: %s: endpoint %q: %s", err.DisplayName, err.Endpoint, err.Reason)
}

// A UsageError reports an action invoked incorrectly, for example with
// arguments but no request transform. It is returned synchronously and
// nothing is dispatched or sent.
type UsageError struct {
	Endpoint string
	Err      error
}

func (err *UsageError) Error() string {
	return fmt.Sprintf("apiaction: endpoint %q: %v", err.Endpoint, err.Err)
}

func (err *UsageError) Unwrap() error {
	return err.Err
}
