// Package queue consumes workflow trigger messages from a Redis list. Each
// message names a workflow and carries its trigger payload; the consumer runs
// the workflow through the shared engine.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

const defaultQueue = "taskflow:executions"

// Runner is the engine surface the consumer drives.
type Runner interface {
	Execute(ctx context.Context, workflowID string, triggerData map[string]any) (*models.Execution, error)
}

// Message is the queue payload shape.
type Message struct {
	WorkflowID  string         `json:"workflow_id"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

type Consumer struct {
	queue  string
	client redis.UniversalClient
	runner Runner
	logger *slog.Logger
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Queue    string
}

func NewConsumer(ctx context.Context, logger *slog.Logger, cfg Config, runner Runner) (*Consumer, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = defaultQueue
	}

	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := client.Ping(pingCtx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger = logger.With("module", "queue", "queue", queue)
	logger.InfoContext(ctx, "Connected to Redis", "addr", addr, "db", cfg.DB)

	return &Consumer{
		queue:  queue,
		client: client,
		runner: runner,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)

	go c.consume(ctx)
}

func (c *Consumer) consume(ctx context.Context) {
	defer c.wg.Done()

	c.logger.InfoContext(ctx, "Starting queue consumer")

	for {
		select {
		case <-c.stopCh:
			c.logger.InfoContext(ctx, "Queue consumer stopped")

			return
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Context cancelled, stopping queue consumer")

			return
		default:
			err := c.processMessage(ctx)
			if err != nil {
				c.logger.ErrorContext(ctx, "Error processing message", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context) error {
	result, err := c.client.BLPop(ctx, 1*time.Second, c.queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to pop message from queue: %w", err)
	}

	if len(result) < 2 {
		return nil
	}

	var message Message
	if err := json.Unmarshal([]byte(result[1]), &message); err != nil {
		return fmt.Errorf("failed to decode queue message: %w", err)
	}

	if message.WorkflowID == "" {
		c.logger.WarnContext(ctx, "Dropping queue message without workflow_id")

		return nil
	}

	triggerData := message.TriggerData
	if triggerData == nil {
		triggerData = map[string]any{}
	}

	if triggerData["timestamp"] == nil {
		triggerData["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	}

	triggerData["source"] = "queue"

	go func() {
		if _, err := c.runner.Execute(ctx, message.WorkflowID, triggerData); err != nil {
			c.logger.ErrorContext(ctx, "Queued execution failed",
				"workflow_id", message.WorkflowID, "error", err)
		}
	}()

	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	c.logger.InfoContext(ctx, "Stopping queue consumer")

	close(c.stopCh)
	c.wg.Wait()

	if c.client != nil {
		err := c.client.Close()
		if err != nil {
			c.logger.ErrorContext(ctx, "Error closing Redis client", "error", err)
		}
	}

	return nil
}
