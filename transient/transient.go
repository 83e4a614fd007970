// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"syscall"
)

// A Category is the transience category of an error, as reported by
// Categorize.
//
// Not and Canceled are the non-transient categories: retrying after
// such an error is pointless, either because it is unlikely to succeed
// or because the caller asked for the request to stop. Every other
// category is transient.
type Category int

const (
	// Not indicates any non-transient error, and also the nil error.
	Not Category = iota
	// Timeout indicates a client-side timeout, either an attempt
	// timeout set by the transport's timeout policy or a deadline on
	// the caller's context.
	//
	// Categorize returns Timeout if the error or any error it wraps
	// has a Timeout method reporting true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED). It is treated as transient because a
	// service that is restarting stops listening for a short while.
	ConnRefused
	// ConnReset indicates the remote host reset an established TCP
	// connection (syscall.ECONNRESET), as commonly happens when a load
	// balancer or a badly drained service drops the connection.
	ConnReset
	// Canceled indicates the request context was canceled, which is
	// how an aborted request surfaces inside the transport.
	Canceled
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"Canceled",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Category(?)"
	}
	return categoryNames[c]
}

// Transient reports whether the category represents an error worth
// retrying.
func (c Category) Transient() bool {
	return c != Not && c != Canceled
}

// Categorize returns the transience category of err.
//
// Categorize looks through wrapped errors. Timeouts take precedence
// over cancellation, and cancellation over the connection errors. The
// Temporary method some network errors carry is deliberately ignored.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var t hasTimeout
	if errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
