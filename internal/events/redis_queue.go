package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisPollTimeout = 5 * time.Second
	redisPushTimeout = 2 * time.Second
)

type redisQueue struct {
	client  *redis.Client
	key     string
	pending chan Event
	logger  *zap.Logger
}

// NewRedisQueue stores events as JSON in a Redis list, so pending notifications survive restarts.
// Publish only hands the event to a buffer of size events; a background goroutine pushes it to
// Redis until ctx is done. A full buffer drops the event with ErrQueueFull.
func NewRedisQueue(ctx context.Context, client *redis.Client, key string, size int, logger *zap.Logger) Queue {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &redisQueue{
		client:  client,
		key:     key,
		pending: make(chan Event, size),
		logger:  logger,
	}
	go q.pushLoop(ctx)
	return q
}

func (q *redisQueue) Publish(_ context.Context, event Event) error {
	stamp(&event)
	select {
	case q.pending <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *redisQueue) pushLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-q.pending:
			if err := q.push(ctx, event); err != nil {
				q.logger.Warn("notification push failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}
}

func (q *redisQueue) push(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, redisPushTimeout)
	defer cancel()
	return q.client.RPush(ctx, q.key, payload).Err()
}

func (q *redisQueue) Receive(ctx context.Context) (Event, error) {
	for {
		result, err := q.client.BLPop(ctx, redisPollTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return Event{}, ctx.Err()
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Event{}, ctx.Err()
			}
			return Event{}, err
		}
		// BLPOP returns [key, value].
		if len(result) != 2 {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
			return Event{}, fmt.Errorf("decode event: %w", err)
		}
		return event, nil
	}
}
