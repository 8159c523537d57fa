package push

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/telemetry"

	"github.com/hibiken/asynq"
)

// Worker drains push:deliver tasks. Endpoints are resolved at run time,
// not enqueue time, so a device registered a moment after the triggering
// event is still reached. Per-token failures are logged and counted, and
// tokens the gateway reports permanently dead are deactivated on the
// spot. Nothing a worker does is ever reported back to the request that
// queued the task.
type Worker struct {
	gateway    Gateway
	deviceRepo *repositories.DeviceRepository
}

func NewWorker(gateway Gateway, deviceRepo *repositories.DeviceRepository) *Worker {
	return &Worker{
		gateway:    gateway,
		deviceRepo: deviceRepo,
	}
}

func (w *Worker) HandleDeliverTask(ctx context.Context, task *asynq.Task) error {
	var payload DeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("undecodable push payload: %v: %w", err, asynq.SkipRetry)
	}

	endpoints, err := w.deviceRepo.ActiveEndpointsForUser(payload.UserID)
	if err != nil {
		return err
	}
	if len(endpoints) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(endpoints))
	for _, endpoint := range endpoints {
		tokens = append(tokens, endpoint.Token)
	}

	deliveries, err := w.gateway.Send(ctx, tokens, payload.Title, payload.Body, payload.Data)
	if err != nil {
		return err
	}

	for _, delivery := range deliveries {
		if delivery.Err == nil {
			telemetry.PushesSent.Inc()
			continue
		}
		telemetry.PushesFailed.Inc()
		logger.Warn("push delivery failed",
			"userId", payload.UserID, "permanent", delivery.Permanent, "error", delivery.Err)
		if delivery.Permanent {
			if err := w.deviceRepo.DeactivateByToken(delivery.Token); err != nil {
				logger.Error("failed to deactivate dead push token", "error", err)
				continue
			}
			telemetry.EndpointsPruned.Inc()
		}
	}
	return nil
}
