package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/testutil"
)

func newHungRedisQueue(t *testing.T, size int) events.Queue {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: testutil.SilentListener(t)})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return events.NewRedisQueue(ctx, client, "helpdesk:test", size, zap.NewNop())
}

func TestRedisQueue_PublishDoesNotWaitForRedis(t *testing.T) {
	q := newHungRedisQueue(t, 8)

	start := time.Now()
	err := q.Publish(context.Background(), events.Event{Type: events.EventTicketCreated})

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRedisQueue_DropsWhenBufferFull(t *testing.T) {
	q := newHungRedisQueue(t, 1)

	// The pusher holds at most one event and the buffer one more.
	var full int
	for range 3 {
		if err := q.Publish(context.Background(), events.Event{Type: events.EventSLABreached}); errors.Is(err, events.ErrQueueFull) {
			full++
		}
	}
	assert.GreaterOrEqual(t, full, 1)
}
