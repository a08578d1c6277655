// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections_active",
			Help: "Number of registered display connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_messages_sent_total",
			Help: "Frames successfully written to display connections",
		},
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_messages_received_total",
			Help: "Frames read from display connections by kind",
		},
		[]string{"kind"}, // fish_data, fish_spawned, unknown, malformed, rate_limited
	)

	WSSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_send_failures_total",
			Help: "Frame writes that failed and caused the connection to be pruned",
		},
	)

	WSPrunedConnections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_pruned_connections_total",
			Help: "Connections removed from the registry after a failed broadcast send",
		},
	)

	// Broadcast Metrics
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcasts_total",
			Help: "Broadcast passes by frame kind",
		},
		[]string{"kind"},
	)

	BroadcastRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_recipients",
			Help:    "Connections reached per broadcast pass",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		},
	)

	// EventSub Metrics
	EventSubMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsub_messages_total",
			Help: "EventSub webhook deliveries by message type and result",
		},
		[]string{"message_type", "result"}, // result: accepted, invalid_signature, stale, duplicate, malformed
	)

	// Command Metrics
	CommandOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_outcomes_total",
			Help: "Command executions by code and outcome status",
		},
		[]string{"source", "code", "status"},
	)

	// Game State Metrics
	OwnershipGrants = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ownership_grants_total",
			Help: "Fish ownership grants recorded",
		},
	)

	FishSnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fish_snapshot_size",
			Help: "Number of fish in the latest snapshot from the game",
		},
	)

	FishSnapshotUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fish_snapshot_updates_total",
			Help: "Snapshot frames by result",
		},
		[]string{"result"}, // applied, malformed
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records one HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBroadcast records one fan-out pass.
func RecordBroadcast(kind string, recipients, failures int) {
	BroadcastsTotal.WithLabelValues(kind).Inc()
	BroadcastRecipients.Observe(float64(recipients))
	WSMessagesSent.Add(float64(recipients))
	if failures > 0 {
		WSSendFailures.Add(float64(failures))
	}
}

// RecordCommand records a command outcome. Unknown codes are bucketed so
// arbitrary path values cannot grow label cardinality.
func RecordCommand(source string, code int, status string) {
	label := "other"
	if code >= 1 && code <= 8 {
		label = strconv.Itoa(code)
	}
	CommandOutcomes.WithLabelValues(source, label, status).Inc()
}

// RecordEventSub records one webhook delivery.
func RecordEventSub(messageType, result string) {
	switch messageType {
	case "notification", "webhook_callback_verification", "revocation":
	default:
		messageType = "other"
	}
	EventSubMessages.WithLabelValues(messageType, result).Inc()
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
