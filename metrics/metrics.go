// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about tmdbx.Client plan
// executions through an event handler.
package metrics

import (
	"strconv"

	"github.com/gogama/tmdbx"
	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/transient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors. Its Handle method keeps them up to
// date; install it on a client with Install.
type Metrics struct {
	AttemptsTotal        *prometheus.CounterVec
	AttemptTimeoutsTotal prometheus.Counter
	PlanTimeoutsTotal    prometheus.Counter
	RetriesTotal         prometheus.Counter
	ExecutionsInFlight   prometheus.Gauge
	ExecutionDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "HTTP attempts by method and outcome. The outcome is the status code, or the error category if no response arrived.",
		}, []string{"method", "outcome"}),

		AttemptTimeoutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempt_timeouts_total",
			Help:      "Attempts that ran past their timeout.",
		}),

		PlanTimeoutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_timeouts_total",
			Help:      "Executions ended by their context deadline.",
		}),

		RetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Attempts beyond the first.",
		}),

		ExecutionsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "executions_in_flight",
			Help:      "Executions started but not yet ended.",
		}),

		ExecutionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execution_duration_seconds",
			Help:      "Execution latency including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"method"}),
	}
}

// Install adds m as a handler for every event in g.
func (m *Metrics) Install(g *tmdbx.HandlerGroup) {
	g.PushBackAll(m)
}

// Handle implements tmdbx.Handler.
func (m *Metrics) Handle(evt tmdbx.Event, e *request.Execution) {
	switch evt {
	case tmdbx.BeforeExecutionStart:
		m.ExecutionsInFlight.Inc()
	case tmdbx.AfterAttempt:
		m.AttemptsTotal.WithLabelValues(e.Plan.Method, outcome(e)).Inc()
	case tmdbx.AfterAttemptTimeout:
		m.AttemptTimeoutsTotal.Inc()
	case tmdbx.AfterPlanTimeout:
		m.PlanTimeoutsTotal.Inc()
	case tmdbx.AfterExecutionEnd:
		m.ExecutionsInFlight.Dec()
		m.RetriesTotal.Add(float64(e.Attempt))
		m.ExecutionDuration.WithLabelValues(e.Plan.Method).Observe(e.Duration().Seconds())
	}
}

func outcome(e *request.Execution) string {
	if e.Response == nil {
		return transient.Categorize(e.Err).String()
	}
	return strconv.Itoa(e.StatusCode())
}
