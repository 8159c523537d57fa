package interfaces

import "context"

// LivePublisher delivers an event to every live connection a user holds
// on this process. Returns the number of connections written.
type LivePublisher interface {
	Publish(userID uint, event string, payload interface{}) int
}

// BusPublisher hands a live event to sibling processes so their local
// sockets get it too.
type BusPublisher interface {
	PublishLiveEvent(ctx context.Context, userID uint, event string, payload interface{}) error
}

// PushEnqueuer queues one remote-push delivery for a recipient's devices.
type PushEnqueuer interface {
	EnqueuePush(ctx context.Context, userID uint, title, body string, data map[string]string) error
}
