// Package metrics exposes the engine's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionRequests counts connection requests by result.
	ConnectionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_connection_requests_total",
		Help: "Connection requests by result",
	}, []string{"result"})

	// ConnectionResponses counts responses to pending requests by decision and result.
	ConnectionResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_connection_responses_total",
		Help: "Responses to connection requests by decision and result",
	}, []string{"decision", "result"})

	// MessagesAppended counts committed messages.
	MessagesAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_messages_appended_total",
		Help: "Messages appended to conversations",
	})

	// PublishFailures counts messages that were committed but could not be published.
	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_message_publish_failures_total",
		Help: "Committed messages whose live publication failed",
	})

	// LiveSubscriptions is the number of open conversation subscriptions.
	LiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skillswap_live_subscriptions",
		Help: "Open conversation subscriptions",
	})

	// GapBackfills counts subscription back-fills triggered by a sequence gap.
	GapBackfills = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_subscription_backfills_total",
		Help: "Subscription back-fills from the store after a sequence gap",
	})

	// HTTPRequestDuration tracks API latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillswap_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)
