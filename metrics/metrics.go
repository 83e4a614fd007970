// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about apiaction requests.
//
// Install a Collector in the handler group of every Creator to be
// measured:
//
//	g := &apiaction.HandlerGroup{}
//	metrics.NewCollector(prometheus.DefaultRegisterer, "pets").Install(g)
//	creator, err := apiaction.New("pets", endpoints, apiaction.WithHandlers(g), ...)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gogama/apiaction"
)

// A Collector is an apiaction.Handler which records, per creator and
// endpoint, how many requests entered each phase, how many are in
// flight, and how long settled requests took.
type Collector struct {
	requests *prometheus.CounterVec
	inflight *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
// The metric names are prefixed with namespace. It panics if the
// metrics are already registered.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		// requests counts requests entering each phase.
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of requests entering each lifecycle phase",
		}, []string{"creator", "endpoint", "phase"}),

		// inflight gauges the number of pending requests.
		inflight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_inflight",
			Help:      "The number of requests currently pending",
		}, []string{"creator"}),

		// duration measures the time from pending to the terminal phase.
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from pending to settlement (in seconds)",
			Buckets:   prometheus.DefBuckets,
		}, []string{"creator", "endpoint", "phase"}),
	}
}

// Install adds c to every phase of g.
func (c *Collector) Install(g *apiaction.HandlerGroup) {
	g.PushBackAll(c)
}

// Handle implements apiaction.Handler.
func (c *Collector) Handle(p apiaction.Phase, r *apiaction.Request) {
	creator := r.Creator()
	c.requests.WithLabelValues(creator, r.Endpoint, p.Name()).Inc()
	if !p.Terminal() {
		c.inflight.WithLabelValues(creator).Inc()
		return
	}

	c.inflight.WithLabelValues(creator).Dec()
	c.duration.WithLabelValues(creator, r.Endpoint, p.Name()).Observe(r.End.Sub(r.Start).Seconds())
}
