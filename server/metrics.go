// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	a2a "github.com/go-a2a/a2a-bearer"
)

// Metrics holds the Prometheus collectors of a server.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	authDecisions *prometheus.CounterVec
	rpcRequests   *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
}

// NewMetrics returns Metrics registered on a fresh registry that also
// exposes the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2a",
			Name:      "auth_decisions_total",
			Help:      "Authentication decisions by outcome.",
		}, []string{"outcome"}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2a",
			Name:      "rpc_requests_total",
			Help:      "JSON-RPC requests by method and status.",
		}, []string{"method", "status"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "a2a",
			Name:      "task_duration_seconds",
			Help:      "Time spent processing tasks by final state.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"state"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.authDecisions,
		m.rpcRequests,
		m.taskDuration,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAuth records an authentication decision.
func (m *Metrics) ObserveAuth(outcome string) {
	if m == nil {
		return
	}
	m.authDecisions.WithLabelValues(outcome).Inc()
}

// ObserveRPC records a JSON-RPC request. status is "ok" or the error code.
func (m *Metrics) ObserveRPC(method, status string) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(method, status).Inc()
}

// ObserveTask records the processing time of a task that reached state.
func (m *Metrics) ObserveTask(state a2a.TaskState, d time.Duration) {
	if m == nil {
		return
	}
	m.taskDuration.WithLabelValues(string(state)).Observe(d.Seconds())
}
