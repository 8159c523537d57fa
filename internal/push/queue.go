package push

import (
	"context"

	"github.com/hibiken/asynq"
)

// Queue enqueues push deliveries on the shared Redis instance. It is the
// producer half; Worker and Server drain the queue.
type Queue struct {
	client *asynq.Client
}

func NewQueue(redisAddr string) *Queue {
	return &Queue{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

// EnqueuePush queues one delivery for every device the user holds at the
// time the task runs.
func (q *Queue) EnqueuePush(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	task, err := NewDeliverTask(DeliverPayload{
		UserID: userID,
		Title:  title,
		Body:   body,
		Data:   data,
	})
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task)
	return err
}

func (q *Queue) Close() error {
	return q.client.Close()
}
