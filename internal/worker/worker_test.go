package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

type recordingDeliverer struct {
	mu     sync.Mutex
	events []events.Event
	panics bool
}

func (d *recordingDeliverer) Deliver(_ context.Context, event events.Event) {
	d.mu.Lock()
	d.events = append(d.events, event)
	shouldPanic := d.panics
	d.mu.Unlock()
	if shouldPanic {
		panic("boom")
	}
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

func TestNotificationWorker_DeliversInOrder(t *testing.T) {
	queue := events.NewChannelQueue(8)
	deliverer := &recordingDeliverer{}
	worker := NewNotificationWorker(queue, deliverer, nil)
	worker.Start(context.Background())
	defer worker.Stop()

	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, events.Event{Type: events.EventTicketCreated}))
	require.NoError(t, queue.Publish(ctx, events.Event{Type: events.EventSLABreached}))

	require.Eventually(t, func() bool { return deliverer.count() == 2 }, time.Second, 10*time.Millisecond)
	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	assert.Equal(t, events.EventTicketCreated, deliverer.events[0].Type)
	assert.Equal(t, events.EventSLABreached, deliverer.events[1].Type)
}

func TestNotificationWorker_SurvivesPanics(t *testing.T) {
	queue := events.NewChannelQueue(8)
	deliverer := &recordingDeliverer{panics: true}
	worker := NewNotificationWorker(queue, deliverer, nil)
	worker.Start(context.Background())
	defer worker.Stop()

	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, events.Event{Type: events.EventTicketCreated}))
	require.NoError(t, queue.Publish(ctx, events.Event{Type: events.EventTicketCreated}))

	require.Eventually(t, func() bool { return deliverer.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestNotificationWorker_StopBeforeStart(t *testing.T) {
	worker := NewNotificationWorker(events.NewChannelQueue(1), &recordingDeliverer{}, nil)
	assert.NotPanics(t, worker.Stop)
}

type stubSweeper struct {
	calls int
	err   error
}

func (s *stubSweeper) Sweep(context.Context) ([]domain.Ticket, error) {
	s.calls++
	return []domain.Ticket{{ID: "t1"}}, s.err
}

func TestSLAWatchdog_InvalidSchedule(t *testing.T) {
	_, err := NewSLAWatchdog(&stubSweeper{}, nil, nil, "every now and then")
	assert.Error(t, err)
}

func TestSLAWatchdog_RunOnceSwallowsErrors(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("db down")}
	watchdog, err := NewSLAWatchdog(sweeper, nil, nil, SweepSchedule)
	require.NoError(t, err)

	assert.NotPanics(t, watchdog.RunOnce)
	assert.Equal(t, 1, sweeper.calls)
}

func TestSLAWatchdog_StartStop(t *testing.T) {
	watchdog, err := NewSLAWatchdog(&stubSweeper{}, nil, nil, SweepSchedule)
	require.NoError(t, err)

	watchdog.Start()
	assert.Len(t, watchdog.cron.Entries(), 1)
	watchdog.Stop()
}
