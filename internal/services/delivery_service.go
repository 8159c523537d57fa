package services

import (
	"context"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/interfaces"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/socket"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/telemetry"
)

// DeliveryService fans one event out to every recipient's live connections
// and registered push endpoints. Both channels are best effort: a recipient
// with no live connection simply waits for the remote push, a failed bus or
// queue write is logged and swallowed. Fan-out runs strictly after the
// domain transaction that produced the event and never feeds an error back
// into it.
type DeliveryService struct {
	ctx       context.Context
	presence  interfaces.LivePublisher
	bus       interfaces.BusPublisher
	pushQueue interfaces.PushEnqueuer
}

// NewDeliveryService wires the three channels. bus and pushQueue may be nil
// when the deployment runs single-process or without a push gateway; the
// corresponding leg is then skipped.
func NewDeliveryService(
	ctx context.Context,
	presence interfaces.LivePublisher,
	bus interfaces.BusPublisher,
	pushQueue interfaces.PushEnqueuer,
) *DeliveryService {
	return &DeliveryService{
		ctx:       ctx,
		presence:  presence,
		bus:       bus,
		pushQueue: pushQueue,
	}
}

// Deliver pushes the live event and queues the remote push for every
// recipient. No ordering guarantee between recipients.
func (ds *DeliveryService) Deliver(recipients []uint, event string, payload socket.LivePayload, push models.PushContent) {
	ds.DeliverLive(recipients, event, payload)
	ds.DeliverPush(recipients, push)
}

// DeliverLive writes the event to every recipient's local connections and
// hands it to sibling processes over the bus. Payloads are validated here,
// at the fan-out boundary, so no malformed event ever reaches a client.
func (ds *DeliveryService) DeliverLive(recipients []uint, event string, payload socket.LivePayload) {
	if err := payload.Validate(); err != nil {
		telemetry.LivePayloadRejected.Inc()
		logger.Error("rejecting malformed live payload", "event", event, "error", err)
		return
	}

	for _, recipientID := range recipients {
		delivered := ds.presence.Publish(recipientID, event, payload)
		if delivered > 0 {
			telemetry.LiveDeliveries.WithLabelValues(event).Add(float64(delivered))
		}
		if ds.bus == nil {
			continue
		}
		if err := ds.bus.PublishLiveEvent(ds.ctx, recipientID, event, payload); err != nil {
			logger.Warn("live event bus publish failed", "event", event, "userId", recipientID, "error", err)
		}
	}
}

// DeliverPush queues one remote-push delivery per recipient. The worker
// resolves the recipient's endpoints when the task runs, so endpoints
// registered between enqueue and delivery are still reached. An empty
// PushContent skips the remote leg, for events that are live-only.
func (ds *DeliveryService) DeliverPush(recipients []uint, push models.PushContent) {
	if ds.pushQueue == nil || push.Empty() {
		return
	}

	for _, recipientID := range recipients {
		if err := ds.pushQueue.EnqueuePush(ds.ctx, recipientID, push.Title, push.Body, push.Data); err != nil {
			logger.Warn("push enqueue failed", "userId", recipientID, "error", err)
			continue
		}
		telemetry.PushesEnqueued.Inc()
	}
}
