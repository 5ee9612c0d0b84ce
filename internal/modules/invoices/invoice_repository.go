package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipnix/shipnix-express/internal/models"
)

// RepositoryInterface defines the contract for the invoice repository.
type RepositoryInterface interface {
	Create(ctx context.Context, invoiceNumber string, req models.CreateInvoiceRequest) (*models.Invoice, error)
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.Invoice, int, error)
	MarkPaid(ctx context.Context, id string, packageID *string) (*models.Invoice, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new invoice repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const invoiceColumns = `id, invoice_number, customer_email, amount, description, status, shipment, package_id, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	var shipment []byte
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerEmail, &inv.Amount, &inv.Description, &inv.Status, &shipment, &inv.PackageID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	if len(shipment) > 0 {
		var req models.CreatePackageRequest
		if err := json.Unmarshal(shipment, &req); err != nil {
			return nil, fmt.Errorf("failed to decode invoice shipment: %w", err)
		}
		inv.Shipment = &req
	}
	return &inv, nil
}

func (r *Repository) Create(ctx context.Context, invoiceNumber string, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	var shipment []byte
	if req.Shipment != nil {
		b, err := json.Marshal(req.Shipment)
		if err != nil {
			return nil, fmt.Errorf("repository.CreateInvoice: encode shipment: %w", err)
		}
		shipment = b
	}

	query := `
		INSERT INTO invoices (invoice_number, customer_email, amount, description, status, shipment)
		VALUES ($1, $2, $3, $4, 'sent', $5)
		RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, invoiceNumber, req.CustomerEmail, req.Amount, req.Description, shipment))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreateInvoice: %w", err)
	}
	return inv, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindInvoiceByID: %w", err)
	}
	return inv, nil
}

func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.Invoice, int, error) {
	offset := (page - 1) * limit
	rows, err := r.db.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListInvoices.Query: %w", err)
	}
	defer rows.Close()

	var invs []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListInvoices.scanInvoice: %w", err)
		}
		invs = append(invs, inv)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invoices").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListInvoices.Count: %w", err)
	}
	return invs, total, nil
}

func (r *Repository) MarkPaid(ctx context.Context, id string, packageID *string) (*models.Invoice, error) {
	query := `
		UPDATE invoices
		SET status = 'paid', package_id = COALESCE($2, package_id), updated_at = now()
		WHERE id = $1
		RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, id, packageID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.MarkInvoicePaid: %w", err)
	}
	return inv, nil
}
