package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Consumer consumes listing events from the Redis queue
type Consumer struct {
	client    *redis.Client
	queueName string
	timeout   time.Duration
}

// NewConsumer creates a new queue consumer
func NewConsumer(client *redis.Client, queueName string, timeout time.Duration) *Consumer {
	if queueName == "" {
		queueName = DefaultQueueName
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Consumer{
		client:    client,
		queueName: queueName,
		timeout:   timeout,
	}
}

// ConsumeBatch consumes up to maxBatch events from the queue.
// It blocks for the first event with BRPOP, then drains the rest with
// non-blocking RPOP. Malformed payloads are logged and skipped.
func (c *Consumer) ConsumeBatch(ctx context.Context, maxBatch int) ([]*domain.ListingEvent, error) {
	events := make([]*domain.ListingEvent, 0, maxBatch)

	// First item: BRPOP blocks until available so idle workers don't spin
	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return events, nil // Timeout, no events
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) >= 2 {
		if ev, err := decodeEvent(result[1]); err != nil {
			log.Printf("skipping malformed event: %v", err)
		} else {
			events = append(events, ev)
		}
	}

	for i := 1; i < maxBatch; i++ {
		payload, err := c.client.RPop(ctx, c.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break // Queue drained
			}
			return events, fmt.Errorf("rpop: %w", err)
		}

		ev, err := decodeEvent(payload)
		if err != nil {
			log.Printf("skipping malformed event: %v", err)
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

func decodeEvent(payload string) (*domain.ListingEvent, error) {
	var ev domain.ListingEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &ev, nil
}
