package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestChannelQueue_PublishReceive(t *testing.T) {
	q := NewChannelQueue(2)
	ticket := &domain.Ticket{ID: "t1", Title: "Printer", Priority: domain.TicketPriorityP1, Content: "jammed"}

	require.NoError(t, q.Publish(context.Background(), Event{
		Type:    EventTicketCreated,
		Tickets: []TicketRef{NewTicketRef(ticket, true)},
	}))

	event, err := q.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EventTicketCreated, event.Type)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	require.Len(t, event.Tickets, 1)
	assert.Equal(t, "jammed", event.Tickets[0].Content)
}

func TestChannelQueue_DropsWhenFull(t *testing.T) {
	q := NewChannelQueue(1)

	require.NoError(t, q.Publish(context.Background(), Event{Type: EventSLABreached}))
	assert.ErrorIs(t, q.Publish(context.Background(), Event{Type: EventSLABreached}), ErrQueueFull)
}

func TestChannelQueue_ReceiveHonorsContext(t *testing.T) {
	q := NewChannelQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewTicketRef_OmitsContent(t *testing.T) {
	ticket := &domain.Ticket{ID: "t1", Content: "secret details"}
	assert.Empty(t, NewTicketRef(ticket, false).Content)
}
