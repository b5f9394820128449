// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRequest("/api/tasks", "GET", "200", 5*time.Millisecond)
	m.RecordWrite(nil)
	m.RecordWrite(errors.New("disk full"))
	m.RecordMutation("create")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["taskboard_http_requests_total"])
	assert.True(t, names["taskboard_http_request_duration_seconds"])
	assert.True(t, names["taskboard_document_writes_total"])
	assert.True(t, names["taskboard_tasks_mutated_total"])
}

func TestObserveRequest_Counts(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveRequest("/api/tasks", "GET", "200", time.Millisecond)
	m.ObserveRequest("/api/tasks", "GET", "200", time.Millisecond)
	m.ObserveRequest("/api/tasks", "POST", "400", time.Millisecond)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/tasks", "GET", "200")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/tasks", "POST", "400")))
}

func TestRecordWrite_Outcomes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordWrite(nil)
	m.RecordWrite(errors.New("boom"))
	m.RecordWrite(errors.New("boom again"))

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.DocumentWritesTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.DocumentWritesTotal.WithLabelValues("error")))
}
