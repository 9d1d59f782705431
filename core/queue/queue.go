package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"conference-badge-api/core/config"
	"conference-badge-api/core/logger"

	"github.com/hibiken/asynq"
)

// Enqueuer schedules durable background work.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error
}

type HandlerFunc func(ctx context.Context, task *asynq.Task) error

type Client struct {
	client *asynq.Client
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(redisOpt(cfg))}
}

func (c *Client) Enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, body), opts...)
	if err != nil {
		logger.Error("Queue:Enqueue:Error", "type", taskType, "error", err)
		return err
	}
	logger.Info("Queue:Enqueue:Success", "type", taskType, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(redisCfg config.RedisConfig, cfg config.QueueConfig) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	server := asynq.NewServer(redisOpt(redisCfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{"default": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Worker:TaskFailed", "type", task.Type(), "error", err)
		}),
	})
	return &Worker{server: server, mux: asynq.NewServeMux()}
}

func (w *Worker) Handle(taskType string, handler HandlerFunc) {
	w.mux.HandleFunc(taskType, handler)
}

func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// DecodePayload unmarshals a task payload, marking malformed payloads as non-retryable.
func DecodePayload(task *asynq.Task, dest any) error {
	if err := json.Unmarshal(task.Payload(), dest); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}
