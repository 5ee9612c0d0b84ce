package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipnix/shipnix-express/internal/models"
)

// RepositoryInterface defines the contract for the quote repository.
type RepositoryInterface interface {
	Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)
	FindByID(ctx context.Context, id string) (*models.Quote, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.Quote, int, error)
	Update(ctx context.Context, id string, req models.QuoteUpdateRequest) (*models.Quote, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new quote repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const quoteColumns = `id, origin, destination, weight_kg, service_level, contact_email, status, quoted_amount, created_at, updated_at`

func scanQuote(row pgx.Row) (*models.Quote, error) {
	var q models.Quote
	err := row.Scan(&q.ID, &q.Origin, &q.Destination, &q.WeightKg, &q.ServiceLevel, &q.ContactEmail, &q.Status, &q.QuotedAmount, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan quote: %w", err)
	}
	return &q, nil
}

func (r *Repository) Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	query := `
		INSERT INTO quotes (origin, destination, weight_kg, service_level, contact_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + quoteColumns
	quote, err := scanQuote(r.db.QueryRow(ctx, query, req.Origin, req.Destination, req.WeightKg, req.ServiceLevel, req.ContactEmail))
	if err != nil {
		return nil, fmt.Errorf("repository.CreateQuote: %w", err)
	}
	return quote, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Quote, error) {
	quote, err := scanQuote(r.db.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindQuoteByID: %w", err)
	}
	return quote, nil
}

func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.Quote, int, error) {
	offset := (page - 1) * limit
	rows, err := r.db.Query(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListQuotes.Query: %w", err)
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListQuotes.scanQuote: %w", err)
		}
		quotes = append(quotes, quote)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM quotes").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListQuotes.Count: %w", err)
	}
	return quotes, total, nil
}

func (r *Repository) Update(ctx context.Context, id string, req models.QuoteUpdateRequest) (*models.Quote, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}

	if req.Status != nil {
		args = append(args, *req.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.QuotedAmount != nil {
		args = append(args, *req.QuotedAmount)
		sets = append(sets, fmt.Sprintf("quoted_amount = $%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE quotes SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), quoteColumns)
	quote, err := scanQuote(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateQuote: %w", err)
	}
	return quote, nil
}
