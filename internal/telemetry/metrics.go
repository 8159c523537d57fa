package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LiveDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kingbackend_live_deliveries_total",
		Help: "Events written to live connections, by event name.",
	}, []string{"event"})

	LivePayloadRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kingbackend_live_payload_rejected_total",
		Help: "Outbound payloads rejected by fan-out validation.",
	})

	PushesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kingbackend_pushes_enqueued_total",
		Help: "Remote push deliveries queued.",
	})

	PushesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kingbackend_pushes_sent_total",
		Help: "Push messages accepted by the gateway, per token.",
	})

	PushesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kingbackend_pushes_failed_total",
		Help: "Push messages rejected by the gateway, per token.",
	})

	EndpointsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kingbackend_device_endpoints_pruned_total",
		Help: "Device endpoints deactivated after permanent delivery failure.",
	})

	NotificationsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kingbackend_notifications_recorded_total",
		Help: "Ledger rows written, by kind.",
	}, []string{"kind"})

	ConversationsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kingbackend_conversations_merged_total",
		Help: "Duplicate conversations merged into their canonical record.",
	})
)
