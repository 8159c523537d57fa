package push

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeDeliver is the task type for one queued remote-push delivery.
	TypeDeliver = "push:deliver"

	// QueuePush is the asynq queue push deliveries run on.
	QueuePush = "push"
)

// DeliverPayload is the body of one push:deliver task: everything the
// worker needs to reach one recipient's devices. Data values are plain
// strings so thin clients can branch on the type field without a schema
// library.
type DeliverPayload struct {
	UserID uint              `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data"`
}

// NewDeliverTask builds the queued task. Retries are bounded: a push that
// keeps failing is dropped, it never blocks the queue or the request that
// produced it.
func NewDeliverTask(payload DeliverPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeliver, body,
		asynq.Queue(QueuePush),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	), nil
}
