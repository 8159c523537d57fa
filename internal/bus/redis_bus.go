package bus

import (
	"context"
	"encoding/json"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/interfaces"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	redisModels "github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisBus carries live events between the processes of a multi-process
// deployment. Publishing sends the event to every sibling; the subscriber
// loop delivers incoming events to this process's local sockets. Each bus
// instance tags what it publishes with its own origin id and skips those
// messages on the way back in, because the publisher already wrote to its
// local connections before touching the bus.
type RedisBus struct {
	redis  *redis.Client
	origin string
	local  interfaces.LivePublisher
}

func NewRedisBus(redisClient *redis.Client, local interfaces.LivePublisher) *RedisBus {
	return &RedisBus{
		redis:  redisClient,
		origin: uuid.NewString(),
		local:  local,
	}
}

// PublishLiveEvent hands one event to the sibling processes.
func (b *RedisBus) PublishLiveEvent(ctx context.Context, userID uint, event string, payload interface{}) error {
	envelope := redisModels.LiveEvent{
		Origin:  b.origin,
		UserID:  userID,
		Event:   event,
		Payload: payload,
	}
	jsonEvent, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return b.redis.Publish(ctx, redisModels.REDIS_CHANNEL_LIVE_EVENTS, jsonEvent).Err()
}

// Run subscribes to the live-events channel and forwards sibling events to
// the local presence registry. Blocks until the context is cancelled or
// the subscription dies.
func (b *RedisBus) Run(ctx context.Context) error {
	pubsub := b.redis.Subscribe(ctx, redisModels.REDIS_CHANNEL_LIVE_EVENTS)
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	defer func() {
		if err := pubsub.Close(); err != nil {
			logger.Warn("failed to close live-events subscription", "error", err)
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var envelope redisModels.LiveEvent
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				logger.Warn("dropping malformed live event from bus", "error", err)
				continue
			}
			if envelope.Origin == b.origin {
				continue
			}
			b.local.Publish(envelope.UserID, envelope.Event, envelope.Payload)
		}
	}
}
