package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned when the in-memory queue cannot take another event.
var ErrQueueFull = errors.New("notification queue full")

// Publisher accepts events without waiting for delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Queue is the outbound boundary between services and the notification worker.
type Queue interface {
	Publisher
	// Receive blocks until an event is available or ctx is done.
	Receive(ctx context.Context) (Event, error)
}

type channelQueue struct {
	ch chan Event
}

// NewChannelQueue creates a bounded in-process queue. Publish never blocks; it drops when full.
func NewChannelQueue(size int) Queue {
	if size <= 0 {
		size = 1
	}
	return &channelQueue{ch: make(chan Event, size)}
}

func (q *channelQueue) Publish(_ context.Context, event Event) error {
	stamp(&event)
	select {
	case q.ch <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *channelQueue) Receive(ctx context.Context) (Event, error) {
	select {
	case event := <-q.ch:
		return event, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func stamp(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
}
