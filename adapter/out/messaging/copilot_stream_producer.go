// Package messaging provides Redis Streams adapters for asynchronous work.
package messaging

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"copilot_server/core/port/out"
)

// Stream names
const (
	StreamEvaluate = "triage:evaluate"

	// Dead letter queue suffix; failed jobs land on <stream>:dlq.
	dlqSuffix = ":dlq"
)

// RedisProducer implements out.EvaluationProducer using Redis Streams.
type RedisProducer struct {
	client *redis.Client
}

var _ out.EvaluationProducer = (*RedisProducer)(nil)

// NewRedisProducer creates a new RedisProducer.
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{client: client}
}

// PublishEvaluation enqueues a completed run for asynchronous quality
// scoring.
func (p *RedisProducer) PublishEvaluation(ctx context.Context, job *out.EvaluationJob) error {
	return p.publish(ctx, StreamEvaluate, job)
}

// publish serializes a job onto a stream.
func (p *RedisProducer) publish(ctx context.Context, stream string, job interface{}) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", stream, err)
	}

	return nil
}
