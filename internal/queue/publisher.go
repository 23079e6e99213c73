package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list used when no name is configured
const DefaultQueueName = "listings:events"

// Publisher pushes listing events to the Redis queue
type Publisher struct {
	client    *redis.Client
	queueName string
}

// NewPublisher creates a new queue publisher
func NewPublisher(client *redis.Client, queueName string) *Publisher {
	if queueName == "" {
		queueName = DefaultQueueName
	}
	return &Publisher{
		client:    client,
		queueName: queueName,
	}
}

// Publish pushes a single event to the queue
func (p *Publisher) Publish(ctx context.Context, ev *domain.ListingEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.client.LPush(ctx, p.queueName, data).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}

	return nil
}

// PublishBatch pushes multiple events to the queue in one pipeline
func (p *Publisher) PublishBatch(ctx context.Context, events []*domain.ListingEvent) error {
	if len(events) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", ev.ID, err)
		}
		pipe.LPush(ctx, p.queueName, data)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}

	return nil
}

// QueueLength returns the current queue length
func (p *Publisher) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, p.queueName).Result()
}
