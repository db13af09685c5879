// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

// Package metrics registers the Prometheus collectors for API traffic and
// story store activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locallegends_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "locallegends_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	apiActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "locallegends_api_active_requests",
			Help: "Number of API requests currently in flight",
		},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "locallegends_db_query_duration_seconds",
			Help:    "Duration of story store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	dbQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locallegends_db_query_errors_total",
			Help: "Total number of story store query errors",
		},
		[]string{"operation"},
	)

	dbConnectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "locallegends_db_connection_state",
			Help: "Database connection state (0=disconnected, 1=connecting, 2=connected, 3=failed)",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, path, status).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		apiActiveRequests.Inc()
	} else {
		apiActiveRequests.Dec()
	}
}

// ObserveQuery records the duration and outcome of one store operation.
func ObserveQuery(operation string, start time.Time, err error) {
	dbQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetConnectionState publishes the connection manager's current state.
func SetConnectionState(state int) {
	dbConnectionState.Set(float64(state))
}
