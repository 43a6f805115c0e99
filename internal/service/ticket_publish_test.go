package service

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/testutil"
)

func scrapeMetrics(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCreateTicket_HungRedisDoesNotDelayCreation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testutil.SilentListener(t)})
	t.Cleanup(func() { _ = client.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := memory.NewStore()
	svc := NewTicketService(TicketDependencies{
		TicketRepo: store.Tickets(),
		UserRepo:   store.Users(),
		Publisher:  events.NewRedisQueue(ctx, client, "helpdesk:test", 4, zap.NewNop()),
	})
	owner := domain.Actor{ID: "5f4c8d1e-2b3a-4c5d-8e9f-0a1b2c3d4e5f", Role: domain.RoleRequester}

	for range 3 {
		start := time.Now()
		ticket, err := svc.CreateTicket(context.Background(), owner, TicketCreateInput{Title: "VPN", Content: "caiu", Priority: domain.TicketPriorityP1})
		require.NoError(t, err)
		require.NotNil(t, ticket)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	}
}

func TestCreateTicket_CountsDroppedNotification(t *testing.T) {
	store := memory.NewStore()
	metrics := observability.NewMetrics()
	svc := NewTicketService(TicketDependencies{
		TicketRepo: store.Tickets(),
		UserRepo:   store.Users(),
		Publisher:  &recordingPublisher{err: events.ErrQueueFull},
		Metrics:    metrics,
	})
	owner := domain.Actor{ID: "5f4c8d1e-2b3a-4c5d-8e9f-0a1b2c3d4e5f", Role: domain.RoleRequester}

	_, err := svc.CreateTicket(context.Background(), owner, TicketCreateInput{Title: "VPN", Content: "caiu"})
	require.NoError(t, err)

	assert.Contains(t, scrapeMetrics(t, metrics), `helpdesk_notifications_total{outcome="dropped",type="ticket_created"} 1`)
}

func TestSweep_CountsDroppedNotification(t *testing.T) {
	store := memory.NewStore()
	metrics := observability.NewMetrics()
	tickets := NewTicketService(TicketDependencies{TicketRepo: store.Tickets(), UserRepo: store.Users()})
	owner := domain.Actor{ID: "5f4c8d1e-2b3a-4c5d-8e9f-0a1b2c3d4e5f", Role: domain.RoleRequester}
	ticket, err := tickets.CreateTicket(context.Background(), owner, TicketCreateInput{Title: "VPN", Content: "caiu", Priority: domain.TicketPriorityP1})
	require.NoError(t, err)

	sla := NewSLAService(store.Tickets(), &recordingPublisher{err: events.ErrQueueFull}, metrics, nil, nil)
	_, err = sla.SweepAt(context.Background(), ticket.DueAt.Add(time.Minute))
	require.ErrorIs(t, err, events.ErrQueueFull)

	assert.Contains(t, scrapeMetrics(t, metrics), `helpdesk_notifications_total{outcome="dropped",type="sla_breached"} 1`)
}
