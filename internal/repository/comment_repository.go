package repository

import (
	"context"
	"iter"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, author_id, content, created_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.ID)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) iter.Seq2[domain.Comment, error] {
	const query = `
        SELECT c.id, c.ticket_id, c.author_id, c.content, c.created_at, u.name
        FROM ticket_comments c LEFT JOIN users u ON u.id = c.author_id
        WHERE c.ticket_id=$1 ORDER BY c.created_at ASC, c.id ASC`
	return func(yield func(domain.Comment, error) bool) {
		rows, err := r.pool.Query(ctx, query, ticketID)
		if err != nil {
			yield(domain.Comment{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var c domain.Comment
			if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.AuthorName); err != nil {
				yield(domain.Comment{}, err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.Comment{}, err)
		}
	}
}
