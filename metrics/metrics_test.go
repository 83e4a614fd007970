// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogama/apiaction"
	"github.com/gogama/apiaction/dispatch"
	"github.com/gogama/apiaction/internal/testserver"
	"github.com/gogama/apiaction/request"
	"github.com/gogama/apiaction/transport"
)

func TestCollector(t *testing.T) {
	server := testserver.New()
	defer server.Close()
	logger := &log.Logger{Handler: discard.Default, Level: log.InfoLevel}

	reg := prometheus.NewPedanticRegistry()
	c := NewCollector(reg, "test")
	g := &apiaction.HandlerGroup{}
	c.Install(g)

	creator, err := apiaction.New("pets", apiaction.Endpoints{
		"cat": {Method: "GET", Route: "/cat"},
		"bad": {Method: "GET", Route: "/bad-endpoint"},
	},
		apiaction.WithDispatcher(dispatch.NewRegistry()),
		apiaction.WithSender(&transport.Client{BaseURL: server.URL, Logger: logger}),
		apiaction.WithLogger(logger),
		apiaction.WithHandlers(g),
	)
	require.NoError(t, err)

	for _, name := range []string{"cat", "cat", "bad"} {
		r, err := creator.Invoke(name)
		require.NoError(t, err)
		_, _ = r.Wait()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("pets", "cat", "Pending")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("pets", "cat", "Success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("pets", "bad", "Pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("pets", "bad", "Failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.inflight.WithLabelValues("pets")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))

	n, err := testutil.GatherAndCount(reg, "test_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCollector_Abort(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "test")
	g := &apiaction.HandlerGroup{}
	c.Install(g)

	p := transport.NewPromise(nil)
	creator, err := apiaction.New("x", apiaction.Endpoints{"slow": {Method: "GET", Route: "/slow"}},
		apiaction.WithDispatcher(dispatch.NewRegistry()),
		apiaction.WithSender(transport.SenderFunc(func(_ context.Context, _, _ string, _ *request.Spec) transport.Future {
			return p
		})),
		apiaction.WithLogger(&log.Logger{Handler: discard.Default}),
		apiaction.WithHandlers(g),
	)
	require.NoError(t, err)

	r, err := creator.Invoke("slow")
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inflight.WithLabelValues("x")))
	assert.True(t, r.Abort())
	assert.Equal(t, 0.0, testutil.ToFloat64(c.inflight.WithLabelValues("x")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("x", "slow", "Abort")))
}

func TestNewCollector_Duplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg, "dup")
	assert.Panics(t, func() { NewCollector(reg, "dup") })
}
