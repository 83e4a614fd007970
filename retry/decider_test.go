// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/apiaction/request"
	"github.com/stretchr/testify/assert"
)

func TestDefaultDecider(t *testing.T) {
	t.Run("retryable status codes", func(t *testing.T) {
		for _, code := range []int{429, 502, 503, 504} {
			e := request.Execution{Response: &http.Response{StatusCode: code}}
			t.Run(fmt.Sprint(code), func(t *testing.T) {
				for j := 0; j < DefaultTimes; j++ {
					e.Attempt = j
					assert.True(t, DefaultDecider(&e), "attempt %d", j)
				}
				e.Attempt = DefaultTimes
				assert.False(t, DefaultDecider(&e))
			})
		}
	})
	t.Run("non-retryable status codes", func(t *testing.T) {
		for _, code := range []int{200, 201, 204, 400, 401, 404, 500} {
			e := request.Execution{Response: &http.Response{StatusCode: code}}
			assert.False(t, DefaultDecider(&e), "status %d", code)
		}
	})
	t.Run("transient errors", func(t *testing.T) {
		for i, te := range transientErrs {
			e := request.Execution{Err: te}
			assert.True(t, DefaultDecider(&e), "transientErrs[%d]", i)
			e.Attempt = DefaultTimes
			assert.False(t, DefaultDecider(&e), "transientErrs[%d]", i)
		}
	})
	t.Run("non-transient errors", func(t *testing.T) {
		for i, nte := range nonTransientErrs {
			e := request.Execution{Err: nte}
			assert.False(t, DefaultDecider(&e), "nonTransientErrs[%d]", i)
		}
	})
}

func TestTransientErr(t *testing.T) {
	for i, te := range transientErrs {
		assert.True(t, TransientErr(&request.Execution{Err: &url.Error{Err: te}}), "transientErrs[%d]", i)
	}
	for i, nte := range nonTransientErrs {
		assert.False(t, TransientErr(&request.Execution{Err: nte}), "nonTransientErrs[%d]", i)
	}
}

func TestDeciderFunc_AndOr(t *testing.T) {
	yes := DeciderFunc(func(*request.Execution) bool { return true })
	no := DeciderFunc(func(*request.Execution) bool { return false })
	e := &request.Execution{}
	assert.True(t, yes.And(yes).Decide(e))
	assert.False(t, yes.And(no).Decide(e))
	assert.False(t, no.And(yes).Decide(e))
	assert.True(t, yes.Or(no).Decide(e))
	assert.True(t, no.Or(yes).Decide(e))
	assert.False(t, no.Or(no).Decide(e))
}

func TestTimes(t *testing.T) {
	assert.False(t, Times(0)(&request.Execution{}))
	assert.True(t, Times(1)(&request.Execution{}))
	assert.False(t, Times(1)(&request.Execution{Attempt: 1}))
	assert.True(t, Times(2)(&request.Execution{Attempt: 1}))
}

func TestBefore(t *testing.T) {
	e := request.Execution{Start: time.Now()}
	before := Before(time.Minute)
	assert.True(t, before(&e))
	e.End = e.Start.Add(2 * time.Minute)
	assert.False(t, before(&e))
}

func TestStatusCode(t *testing.T) {
	assert.False(t, StatusCode()(&request.Execution{}))
	assert.False(t, StatusCode(0)(&request.Execution{}))
	r := &http.Response{StatusCode: 509}
	e := request.Execution{Response: r}
	assert.True(t, StatusCode(509, 602)(&e))
	r.StatusCode = 508
	assert.False(t, StatusCode(509, 602)(&e))
}

var (
	transientErrs = []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ETIMEDOUT,
		context.DeadlineExceeded,
	}
	nonTransientErrs = []error{
		nil,
		errors.New("ain't transient"),
		syscall.EHOSTUNREACH,
		context.Canceled,
	}
)
