// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the TaskBoard
// service: request counters and latency by route, plus document write
// counters for the flat-file store.
//
// Metrics are exposed on /metrics. All operations are thread-safe via
// Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "taskboard"

// Metrics holds the Prometheus collectors for the service. Initialize
// once at startup via NewMetrics().
type Metrics struct {
	// RequestsTotal counts HTTP requests by route, method and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures handler latency by route and method.
	RequestDurationSeconds *prometheus.HistogramVec

	// DocumentWritesTotal counts full-document rewrites by outcome.
	// Labels: outcome (success, error)
	DocumentWritesTotal *prometheus.CounterVec

	// TasksMutatedTotal counts task mutations by operation.
	// Labels: operation (create, update, delete)
	TasksMutatedTotal *prometheus.CounterVec
}

// NewMetrics registers the service collectors with reg. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh
// prometheus.NewRegistry() so repeated registration never collides.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route, method, and status code",
		}, []string{"route", "method", "status"}),

		RequestDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"route", "method"}),

		DocumentWritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "document_writes_total",
			Help:      "Full-document rewrites of the data file by outcome",
		}, []string{"outcome"}),

		TasksMutatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tasks_mutated_total",
			Help:      "Task mutations by operation",
		}, []string{"operation"}),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, status).Inc()
	m.RequestDurationSeconds.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordWrite records a document rewrite outcome.
func (m *Metrics) RecordWrite(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.DocumentWritesTotal.WithLabelValues(outcome).Inc()
}

// RecordMutation records a task mutation by operation name.
func (m *Metrics) RecordMutation(operation string) {
	m.TasksMutatedTotal.WithLabelValues(operation).Inc()
}
