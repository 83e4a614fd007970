// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import "sync"

// A Promise is a Future settled by whoever created it. The first call
// to Settle wins; later calls are ignored.
type Promise struct {
	settle   sync.Once
	cancel   sync.Once
	done     chan struct{}
	onCancel func()
	res      *Response
	err      error
}

// NewPromise returns an unsettled Promise. onCancel, if not nil, runs
// at most once, on the first call to Cancel.
func NewPromise(onCancel func()) *Promise {
	return &Promise{
		done:     make(chan struct{}),
		onCancel: onCancel,
	}
}

// Settle settles the promise with res and err. It reports whether this
// call settled it.
func (p *Promise) Settle(res *Response, err error) bool {
	settled := false
	p.settle.Do(func() {
		p.res, p.err = res, err
		close(p.done)
		settled = true
	})
	return settled
}

// Done implements Future.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Result implements Future.
func (p *Promise) Result() (*Response, error) {
	<-p.done
	return p.res, p.err
}

// Cancel implements Future.
func (p *Promise) Cancel() {
	p.cancel.Do(func() {
		if p.onCancel != nil {
			p.onCancel()
		}
	})
}
