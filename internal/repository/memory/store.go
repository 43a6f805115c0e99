// Package memory keeps users, tickets and comments in process memory.
// It backs the service when no database is configured, and the tests.
package memory

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Store is the shared state behind the three repositories.
// One mutex serializes writes, which stands in for row-level atomicity.
type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	emails   map[string]string
	tickets  map[string]domain.Ticket
	comments []domain.Comment
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]domain.User),
		emails:  make(map[string]string),
		tickets: make(map[string]domain.Ticket),
	}
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return (*userRepo)(s) }

// Tickets returns the ticket repository view.
func (s *Store) Tickets() repository.TicketRepository { return (*ticketRepo)(s) }

// Comments returns the comment repository view.
func (s *Store) Comments() repository.CommentRepository { return (*commentRepo)(s) }

func (s *Store) userName(id string) *string {
	if u, ok := s.users[id]; ok {
		name := u.Name
		return &name
	}
	return nil
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

type ticketRepo Store

func (r *ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket.ID = uuid.NewString()
	s.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r *ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneTicket(ticket)
	return &out, nil
}

func (r *ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.TicketSummary, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.TicketSummary{}
	for _, ticket := range s.tickets {
		if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
			continue
		}
		item := domain.TicketSummary{Ticket: cloneTicket(ticket), RequesterName: s.userName(ticket.RequesterID)}
		if ticket.AssigneeID != nil {
			item.AssigneeName = s.userName(*ticket.AssigneeID)
		}
		result = append(result, item)
	}
	slices.SortFunc(result, func(a, b domain.TicketSummary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 || limit > repository.MaxTicketList {
		limit = repository.MaxTicketList
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *ticketRepo) Patch(_ context.Context, id string, patch repository.TicketPatch, updatedAt time.Time) (*domain.Ticket, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.AssigneeSet {
		ticket.AssigneeID = cloneString(patch.AssigneeID)
	}
	ticket.UpdatedAt = updatedAt
	s.tickets[id] = ticket

	out := cloneTicket(ticket)
	return &out, nil
}

func (r *ticketRepo) ListOverdue(_ context.Context, now time.Time) ([]domain.Ticket, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Ticket
	for _, ticket := range s.tickets {
		if ticket.Overdue(now) {
			result = append(result, cloneTicket(ticket))
		}
	}
	slices.SortFunc(result, func(a, b domain.Ticket) int {
		return a.DueAt.Compare(b.DueAt)
	})
	return result, nil
}

type commentRepo Store

func (r *commentRepo) Create(_ context.Context, comment *domain.Comment) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.ID = uuid.NewString()
	stored := *comment
	stored.AuthorName = nil
	s.comments = append(s.comments, stored)
	return nil
}

func (r *commentRepo) ListByTicket(_ context.Context, ticketID string) iter.Seq2[domain.Comment, error] {
	s := (*Store)(r)
	return func(yield func(domain.Comment, error) bool) {
		s.mu.RLock()
		var thread []domain.Comment
		for _, c := range s.comments {
			if c.TicketID == ticketID {
				c.AuthorName = s.userName(c.AuthorID)
				thread = append(thread, c)
			}
		}
		s.mu.RUnlock()

		slices.SortStableFunc(thread, func(a, b domain.Comment) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		for _, c := range thread {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.AssigneeID = cloneString(t.AssigneeID)
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
