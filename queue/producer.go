// Package queue provides the fire-and-forget message producer side of
// the export pipeline. The consumer is a separate process.
package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Producer publishes a payload under a topic. Delivery guarantees are
// the broker's; the caller does not wait for consumption.
type Producer interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// RedisProducer implements Producer by pushing onto a Redis list named
// after the topic, which the consumer pops from.
type RedisProducer struct {
	client *redis.Client
}

// NewRedisProducer creates a RedisProducer around an existing client.
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{client: client}
}

// Publish appends the payload to the topic's list.
func (p *RedisProducer) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := p.client.RPush(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}
