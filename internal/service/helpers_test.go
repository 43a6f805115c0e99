package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(start time.Time) *manualClock {
	return &manualClock{now: start}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errPublishFailed = errors.New("broker down")

type fixture struct {
	store     *memory.Store
	clock     *manualClock
	publisher *recordingPublisher
	tickets   *TicketService
	comments  *CommentService
	sla       *SLAService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := newManualClock(time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC))
	publisher := &recordingPublisher{}
	return &fixture{
		store:     store,
		clock:     clock,
		publisher: publisher,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo: store.Tickets(),
			UserRepo:   store.Users(),
			Publisher:  publisher,
			Clock:      clock.Now,
		}),
		comments: NewCommentService(store.Tickets(), store.Comments(), clock.Now),
		sla:      NewSLAService(store.Tickets(), publisher, nil, nil, clock.Now),
	}
}

func (f *fixture) user(t *testing.T, name string, role domain.Role) domain.Actor {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return domain.Actor{ID: user.ID, Email: user.Email, Role: user.Role}
}

func (f *fixture) ticket(t *testing.T, owner domain.Actor, priority domain.TicketPriority) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title:    "Impressora",
		Content:  "Não imprime",
		Priority: priority,
	})
	require.NoError(t, err)
	return ticket
}
