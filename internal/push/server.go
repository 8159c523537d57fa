package push

import (
	"context"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"

	"github.com/hibiken/asynq"
)

// Server runs the asynq consumer for the push queue inside this process.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewServer(redisAddr string, concurrency int, worker *Worker) *Server {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				QueuePush: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("push task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDeliver, worker.HandleDeliverTask)

	return &Server{
		server: server,
		mux:    mux,
	}
}

func (s *Server) Start() error {
	return s.server.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.server.Shutdown()
}
