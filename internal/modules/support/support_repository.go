package support

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipnix/shipnix-express/internal/models"
)

// RepositoryInterface defines the contract for the support repository.
type RepositoryInterface interface {
	CreateTicket(ctx context.Context, req models.CreateTicketRequest) (*models.SupportTicket, error)
	FindTicket(ctx context.Context, id string) (*models.SupportTicket, error)
	ListTickets(ctx context.Context, page, limit int) ([]*models.SupportTicket, int, error)
	ListMessages(ctx context.Context, ticketID string) ([]*models.SupportMessage, error)
	InsertMessage(ctx context.Context, ticketID, sender, body string) (*models.SupportMessage, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new support repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const ticketColumns = `id, subject, customer_name, customer_email, status, created_at, updated_at`

func scanTicket(row pgx.Row) (*models.SupportTicket, error) {
	var t models.SupportTicket
	err := row.Scan(&t.ID, &t.Subject, &t.CustomerName, &t.CustomerEmail, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}
	return &t, nil
}

// CreateTicket inserts the ticket and its opening message together.
func (r *Repository) CreateTicket(ctx context.Context, req models.CreateTicketRequest) (*models.SupportTicket, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateTicket: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO support_tickets (subject, customer_name, customer_email)
		VALUES ($1, $2, $3)
		RETURNING ` + ticketColumns
	ticket, err := scanTicket(tx.QueryRow(ctx, query, req.Subject, req.CustomerName, req.CustomerEmail))
	if err != nil {
		return nil, fmt.Errorf("repository.CreateTicket: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO support_messages (ticket_id, sender, body) VALUES ($1, $2, $3)`,
		ticket.ID, req.CustomerName, req.Message,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateTicket: opening message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreateTicket: commit: %w", err)
	}
	return ticket, nil
}

func (r *Repository) FindTicket(ctx context.Context, id string) (*models.SupportTicket, error) {
	ticket, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindTicket: %w", err)
	}
	return ticket, nil
}

func (r *Repository) ListTickets(ctx context.Context, page, limit int) ([]*models.SupportTicket, int, error) {
	offset := (page - 1) * limit
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM support_tickets ORDER BY updated_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListTickets.Query: %w", err)
	}
	defer rows.Close()

	var tickets []*models.SupportTicket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListTickets.scanTicket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM support_tickets").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListTickets.Count: %w", err)
	}
	return tickets, total, nil
}

func (r *Repository) ListMessages(ctx context.Context, ticketID string) ([]*models.SupportMessage, error) {
	query := `
		SELECT id, ticket_id, sender, body, created_at
		FROM support_messages
		WHERE ticket_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListMessages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.SupportMessage
	for rows.Next() {
		var m models.SupportMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListMessages: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

func (r *Repository) InsertMessage(ctx context.Context, ticketID, sender, body string) (*models.SupportMessage, error) {
	query := `
		INSERT INTO support_messages (ticket_id, sender, body)
		VALUES ($1, $2, $3)
		RETURNING id, ticket_id, sender, body, created_at`
	var m models.SupportMessage
	err := r.db.QueryRow(ctx, query, ticketID, sender, body).Scan(&m.ID, &m.TicketID, &m.Sender, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.InsertMessage: %w", err)
	}
	if _, err := r.db.Exec(ctx, `UPDATE support_tickets SET updated_at = now() WHERE id = $1`, ticketID); err != nil {
		return nil, fmt.Errorf("repository.InsertMessage: touch ticket: %w", err)
	}
	return &m, nil
}
