// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gogama/apiaction/internal/testserver"
	"github.com/gogama/apiaction/request"
	"github.com/gogama/apiaction/retry"
	"github.com/gogama/apiaction/timeout"
	"github.com/gogama/apiaction/transient"
)

var (
	httpServer  = testserver.New()
	http2Server = testserver.NewHTTP2()
	quietLogger = &log.Logger{Handler: discard.Default, Level: log.DebugLevel}
)

func TestMain(m *testing.M) {
	code := m.Run()
	httpServer.Close()
	http2Server.Close()
	os.Exit(code)
}

func newClient() *Client {
	return &Client{
		BaseURL: httpServer.URL,
		Logger:  quietLogger,
	}
}

func TestClient_Do(t *testing.T) {
	t.Run("mirror", func(t *testing.T) {
		c := newClient()
		c.Header = http.Header{"X-Client": {"apiaction"}}
		res, err := c.Do(context.Background(), "POST", "/mirror", &request.Spec{
			Query:  map[string]interface{}{"a": "hi", "b": "mom"},
			Body:   map[string]string{"name": "rex"},
			Header: http.Header{"x-trace": {"t1"}},
		})
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, 200, res.StatusCode)
		assert.Equal(t, "application/json", res.MediaType())

		var m testserver.Mirror
		require.NoError(t, json.Unmarshal(res.Body, &m))
		assert.Equal(t, "POST", m.Method)
		assert.Equal(t, map[string]string{"a": "hi", "b": "mom"}, m.Query)
		assert.JSONEq(t, `{"name":"rex"}`, m.Body)
		assert.Equal(t, "application/json", m.Header["Content-Type"])
		assert.Equal(t, "apiaction", m.Header["X-Client"])
		assert.Equal(t, "t1", m.Header["X-Trace"])
		assert.Equal(t, DefaultAccept, m.Header["Accept"])
	})
	t.Run("nil spec", func(t *testing.T) {
		res, err := newClient().Do(context.Background(), "GET", "/cat", nil)
		require.NoError(t, err)
		assert.Equal(t, "meow", string(res.Body))
		assert.Equal(t, "text/plain", res.ContentType())
	})
	t.Run("route params", func(t *testing.T) {
		res, err := newClient().Do(context.Background(), "GET", "/pets/:id", &request.Spec{
			Params: map[string]interface{}{"id": 42},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"42"}`, string(res.Body))
	})
	t.Run("missing route param", func(t *testing.T) {
		res, err := newClient().Do(context.Background(), "GET", "/pets/:id", nil)
		assert.Nil(t, res)
		require.IsType(t, &url.Error{}, err)
		assert.Contains(t, err.Error(), `missing route parameter "id"`)
	})
	t.Run("status error", func(t *testing.T) {
		res, err := newClient().Do(context.Background(), "GET", "/bad-endpoint", nil)
		require.NotNil(t, res)
		assert.Equal(t, 404, res.StatusCode)
		assert.Equal(t, "not here\n", string(res.Body))
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, 404, statusErr.StatusCode)
		assert.Equal(t, "apiaction/transport: request failed with status 404 Not Found", err.Error())
	})
	t.Run("bad body", func(t *testing.T) {
		res, err := newClient().Do(context.Background(), "POST", "/mirror", &request.Spec{Body: make(chan int)})
		assert.Nil(t, res)
		require.IsType(t, &url.Error{}, err)
		assert.Equal(t, "Post", err.(*url.Error).Op)
	})
	t.Run("attempt timeout", func(t *testing.T) {
		c := newClient()
		c.TimeoutPolicy = timeout.Fixed(20 * time.Millisecond)
		res, err := c.Do(context.Background(), "POST", "/long-time", nil)
		assert.Nil(t, res)
		assert.Equal(t, transient.Timeout, transient.Categorize(err))
	})
	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)
		res, err := newClient().Do(ctx, "POST", "/long-time", nil)
		assert.Nil(t, res)
		assert.Equal(t, transient.Canceled, transient.Categorize(err))
	})
}

func TestClient_Retry(t *testing.T) {
	policy := retry.NewPolicy(retry.Times(3).And(retry.StatusCode(503)), retry.NewFixedWaiter(time.Millisecond))
	t.Run("recovers", func(t *testing.T) {
		c := newClient()
		c.RetryPolicy = policy
		res, err := c.Do(context.Background(), "GET", "/flaky", &request.Spec{
			Query: map[string]interface{}{"fail": 2, "key": t.Name()},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"attempt":2}`, string(res.Body))
	})
	t.Run("gives up", func(t *testing.T) {
		c := newClient()
		c.RetryPolicy = policy
		res, err := c.Do(context.Background(), "GET", "/flaky", &request.Spec{
			Query: map[string]interface{}{"fail": 10, "key": t.Name()},
		})
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.JSONEq(t, `{"attempt":3}`, string(res.Body))
	})
	t.Run("never by default", func(t *testing.T) {
		res, err := newClient().Do(context.Background(), "GET", "/flaky", &request.Spec{
			Query: map[string]interface{}{"fail": 1, "key": t.Name()},
		})
		assert.Error(t, err)
		assert.JSONEq(t, `{"attempt":0}`, string(res.Body))
	})
	t.Run("canceled during wait", func(t *testing.T) {
		c := newClient()
		c.RetryPolicy = retry.NewPolicy(retry.Times(5), retry.NewFixedWaiter(time.Hour))
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)
		res, err := c.Do(ctx, "GET", "/flaky", &request.Spec{
			Query: map[string]interface{}{"fail": 10, "key": t.Name()},
		})
		assert.Nil(t, res)
		assert.Equal(t, transient.Canceled, transient.Categorize(err))
	})
}

func TestClient_Doer(t *testing.T) {
	m := &mockHTTPDoer{}
	m.Test(t)
	m.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.URL.String() == "https://api.example.com/v1/pets?kind=cat&limit=2" &&
			r.Method == "GET"
	})).Return(&http.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       http.NoBody,
	}, nil).Once()
	c := &Client{
		BaseURL:  "https://api.example.com/v1/?kind=cat",
		HTTPDoer: m,
		Logger:   quietLogger,
	}
	res, err := c.Do(context.Background(), "GET", "pets", &request.Spec{
		Query: map[string]interface{}{"limit": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Empty(t, res.Body)
	m.AssertExpectations(t)
}

func TestClient_Send(t *testing.T) {
	t.Run("settles", func(t *testing.T) {
		f := newClient().Send(context.Background(), "GET", "/cat", nil)
		select {
		case <-f.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("future did not settle")
		}
		res, err := f.Result()
		require.NoError(t, err)
		assert.Equal(t, "meow", string(res.Body))
	})
	t.Run("cancel", func(t *testing.T) {
		f := newClient().Send(context.Background(), "POST", "/long-time", nil)
		f.Cancel()
		f.Cancel()
		res, err := f.Result()
		assert.Nil(t, res)
		assert.Equal(t, transient.Canceled, transient.Categorize(err))
	})
}

func TestNewHTTPDoer(t *testing.T) {
	t.Run("HTTP/1.1", func(t *testing.T) {
		doer, err := NewHTTPDoer(HTTPConfig{})
		require.NoError(t, err)
		c := &Client{BaseURL: httpServer.URL, HTTPDoer: doer, Logger: quietLogger}
		res, err := c.Do(context.Background(), "GET", "/cat", nil)
		require.NoError(t, err)
		assert.Equal(t, "HTTP/1.1", res.Proto)
	})
	t.Run("HTTP/2", func(t *testing.T) {
		tlsConfig := http2Server.Client().Transport.(*http.Transport).TLSClientConfig
		doer, err := NewHTTPDoer(HTTPConfig{HTTP2: true, TLSClientConfig: tlsConfig})
		require.NoError(t, err)
		c := &Client{BaseURL: http2Server.URL, HTTPDoer: doer, Logger: quietLogger}
		res, err := c.Do(context.Background(), "GET", "/cat", nil)
		require.NoError(t, err)
		assert.Equal(t, "HTTP/2.0", res.Proto)
		assert.Equal(t, "meow", string(res.Body))
	})
}

func TestJoinURLPath(t *testing.T) {
	assert.Equal(t, "/cat", joinURLPath("", "/cat"))
	assert.Equal(t, "/cat", joinURLPath("/", "cat"))
	assert.Equal(t, "/v1/cat", joinURLPath("/v1", "/cat"))
	assert.Equal(t, "/v1/cat", joinURLPath("/v1/", "/cat"))
}

func TestURLErrorOp(t *testing.T) {
	assert.Equal(t, "Get", urlErrorOp(""))
	assert.Equal(t, "Get", urlErrorOp("GET"))
	assert.Equal(t, "Delete", urlErrorOp("DELETE"))
	assert.Equal(t, "X", urlErrorOp("X"))
}

func TestSenderFunc(t *testing.T) {
	var calls int32
	p := NewPromise(nil)
	s := SenderFunc(func(ctx context.Context, method, route string, spec *request.Spec) Future {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "GET", method)
		assert.Equal(t, "/cat", route)
		return p
	})
	assert.Same(t, p, s.Send(context.Background(), "GET", "/cat", nil))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

type mockHTTPDoer struct {
	mock.Mock
}

func (m *mockHTTPDoer) Do(r *http.Request) (*http.Response, error) {
	args := m.Called(r)
	res, _ := args.Get(0).(*http.Response)
	return res, args.Error(1)
}
