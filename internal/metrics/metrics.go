package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_ws_connections",
		Help: "Currently registered websocket connections.",
	})
	MessagesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_ingested_total",
		Help: "Messages enriched and accepted for persistence.",
	})
	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_message_persistence_failures_total",
		Help: "Message writes that failed; the message was still broadcast.",
	})
	BroadcastDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcast_deliveries_total",
		Help: "Per-connection broadcast deliveries.",
	})
	BroadcastFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcast_failures_total",
		Help: "Per-connection broadcast send failures.",
	})
	FramesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_frames_rejected_total",
		Help: "Inbound frames dropped as malformed or unknown.",
	})
	ConversationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_conversations_created_total",
		Help: "Conversations created through the request interface.",
	})
)

// Handler returns the http.Handler for Prometheus scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
