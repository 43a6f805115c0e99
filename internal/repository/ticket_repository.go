package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const ticketColumns = `id, title, content, priority, status, requester_id, assignee_id, created_at, updated_at, due_at`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, content, priority, status, requester_id, assignee_id, created_at, updated_at, due_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Content,
		ticket.Priority,
		ticket.Status,
		ticket.RequesterID,
		ticket.AssigneeID,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.DueAt,
	).Scan(&ticket.ID)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return ticket, err
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.TicketSummary, error) {
	base := `SELECT t.id, t.title, t.content, t.priority, t.status, t.requester_id, t.assignee_id,
                    t.created_at, t.updated_at, t.due_at, u.name, a.name
             FROM tickets t
             LEFT JOIN users u ON u.id = t.requester_id
             LEFT JOIN users a ON a.id = t.assignee_id`
	args := []any{}
	where := ""
	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		where = fmt.Sprintf(" WHERE t.requester_id=$%d", len(args))
	}
	query := fmt.Sprintf(`%s%s ORDER BY t.created_at DESC LIMIT %d`, base, where, clampLimit(filter.Limit))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketSummary{}
	for rows.Next() {
		var item domain.TicketSummary
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Content,
			&item.Priority,
			&item.Status,
			&item.RequesterID,
			&item.AssigneeID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.DueAt,
			&item.RequesterName,
			&item.AssigneeName,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Patch(ctx context.Context, id string, patch TicketPatch, updatedAt time.Time) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET
            status = COALESCE($1, status),
            assignee_id = CASE WHEN $2 THEN $3 ELSE assignee_id END,
            updated_at = $4
        WHERE id=$5
        RETURNING ` + ticketColumns
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query,
		patch.Status,
		patch.AssigneeSet,
		patch.AssigneeID,
		updatedAt,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return ticket, err
}

func (r *ticketRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets
        WHERE status = ANY($1) AND due_at < $2
        ORDER BY due_at ASC`
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, status := range domain.ActiveStatuses {
		statuses[i] = string(status)
	}
	rows, err := r.pool.Query(ctx, query, statuses, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Content,
		&ticket.Priority,
		&ticket.Status,
		&ticket.RequesterID,
		&ticket.AssigneeID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DueAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
