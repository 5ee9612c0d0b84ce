package packages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipnix/shipnix-express/internal/models"
)

// RepositoryInterface defines the contract for the package repository.
type RepositoryInterface interface {
	Create(ctx context.Context, req models.CreatePackageRequest, trackingCode, paymentStatus, createdBy string) (*models.Package, error)
	FindByID(ctx context.Context, id string) (*models.Package, error)
	FindByTrackingCode(ctx context.Context, code string) (*models.Package, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.Package, int, error)
	Update(ctx context.Context, id string, req models.UpdatePackageRequest) (*models.Package, error)
	UpdateStatus(ctx context.Context, id, status string, location *string, description string, deliveredAt *time.Time) (*models.Package, error)
	ListEvents(ctx context.Context, packageID string) ([]*models.TrackingEvent, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new package repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const packageColumns = `id, tracking_code, sender_name, sender_address, sender_phone, sender_email,
	recipient_name, recipient_address, recipient_phone, recipient_email,
	weight_kg, dimensions, description, shipping_cost, payment_method, payment_status,
	current_status, current_location, estimated_delivery, actual_delivery,
	created_by, created_at, updated_at`

// scanPackage is a helper to scan a row into a Package model.
func scanPackage(row pgx.Row) (*models.Package, error) {
	var p models.Package
	err := row.Scan(
		&p.ID, &p.TrackingCode, &p.SenderName, &p.SenderAddress, &p.SenderPhone, &p.SenderEmail,
		&p.RecipientName, &p.RecipientAddress, &p.RecipientPhone, &p.RecipientEmail,
		&p.WeightKg, &p.Dimensions, &p.Description, &p.ShippingCost, &p.PaymentMethod, &p.PaymentStatus,
		&p.CurrentStatus, &p.CurrentLocation, &p.EstimatedDelivery, &p.ActualDelivery,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan package: %w", err)
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts the package row and its initial "created" tracking event in
// one transaction, so the row never exists without a timeline entry.
func (r *Repository) Create(ctx context.Context, req models.CreatePackageRequest, trackingCode, paymentStatus, createdBy string) (*models.Package, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.CreatePackage: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO packages (tracking_code, sender_name, sender_address, sender_phone, sender_email,
			recipient_name, recipient_address, recipient_phone, recipient_email,
			weight_kg, dimensions, description, shipping_cost, payment_method, payment_status,
			current_status, estimated_delivery, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 'created', $16, $17)
		RETURNING ` + packageColumns

	row := tx.QueryRow(ctx, query,
		trackingCode, req.SenderName, req.SenderAddress, req.SenderPhone, req.SenderEmail,
		req.RecipientName, req.RecipientAddress, req.RecipientPhone, req.RecipientEmail,
		req.WeightKg, req.Dimensions, req.Description, req.ShippingCost, req.PaymentMethod, paymentStatus,
		req.EstimatedDelivery, createdBy,
	)
	pkg, err := scanPackage(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreatePackage: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO tracking_events (package_id, status, description) VALUES ($1, $2, $3)`,
		pkg.ID, models.StatusCreated, models.StatusDescriptions[models.StatusCreated],
	)
	if err != nil {
		return nil, fmt.Errorf("repository.CreatePackage: initial event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreatePackage: commit: %w", err)
	}
	return pkg, nil
}

// FindByID retrieves a single package by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`
	pkg, err := scanPackage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return pkg, nil
}

// FindByTrackingCode retrieves a single package by its public tracking code.
func (r *Repository) FindByTrackingCode(ctx context.Context, code string) (*models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE tracking_code = $1`
	pkg, err := scanPackage(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByTrackingCode: %w", err)
	}
	return pkg, nil
}

// ListAll retrieves all packages with pagination (for admin use).
func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.Package, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + packageColumns + ` FROM packages ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Query: %w", err)
	}
	defer rows.Close()

	var pkgs []*models.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListAll.scanPackage: %w", err)
		}
		pkgs = append(pkgs, pkg)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM packages").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Count: %w", err)
	}
	return pkgs, total, nil
}

// Update patches the provided fields. The tracking code and creator are
// immutable and cannot be touched here.
func (r *Repository) Update(ctx context.Context, id string, req models.UpdatePackageRequest) (*models.Package, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.SenderName != nil {
		add("sender_name", *req.SenderName)
	}
	if req.SenderAddress != nil {
		add("sender_address", *req.SenderAddress)
	}
	if req.SenderPhone != nil {
		add("sender_phone", *req.SenderPhone)
	}
	if req.SenderEmail != nil {
		add("sender_email", *req.SenderEmail)
	}
	if req.RecipientName != nil {
		add("recipient_name", *req.RecipientName)
	}
	if req.RecipientAddress != nil {
		add("recipient_address", *req.RecipientAddress)
	}
	if req.RecipientPhone != nil {
		add("recipient_phone", *req.RecipientPhone)
	}
	if req.RecipientEmail != nil {
		add("recipient_email", *req.RecipientEmail)
	}
	if req.WeightKg != nil {
		add("weight_kg", *req.WeightKg)
	}
	if req.Dimensions != nil {
		add("dimensions", *req.Dimensions)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.ShippingCost != nil {
		add("shipping_cost", *req.ShippingCost)
	}
	if req.PaymentMethod != nil {
		add("payment_method", *req.PaymentMethod)
	}
	if req.PaymentStatus != nil {
		add("payment_status", *req.PaymentStatus)
	}
	if req.EstimatedDelivery != nil {
		add("estimated_delivery", *req.EstimatedDelivery)
	}

	query := fmt.Sprintf(`UPDATE packages SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), packageColumns)
	pkg, err := scanPackage(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdatePackage: %w", err)
	}
	return pkg, nil
}

// UpdateStatus writes the new status to the package row and appends the
// matching tracking event in one transaction. The location only changes when
// one is provided, and actual_delivery is only written for deliveries.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string, location *string, description string, deliveredAt *time.Time) (*models.Package, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE packages
		SET current_status = $2,
		    current_location = COALESCE($3, current_location),
		    actual_delivery = COALESCE($4, actual_delivery),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + packageColumns
	pkg, err := scanPackage(tx.QueryRow(ctx, query, id, status, location, deliveredAt))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateStatus: %w", err)
	}

	eventLocation := ""
	if location != nil {
		eventLocation = *location
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO tracking_events (package_id, status, location, description) VALUES ($1, $2, $3, $4)`,
		pkg.ID, status, eventLocation, description,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateStatus: append event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.UpdateStatus: commit: %w", err)
	}
	return pkg, nil
}

// ListEvents returns a package's tracking events, oldest first.
func (r *Repository) ListEvents(ctx context.Context, packageID string) ([]*models.TrackingEvent, error) {
	query := `
		SELECT id, package_id, status, location, description, created_at
		FROM tracking_events
		WHERE package_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListEvents: %w", err)
	}
	defer rows.Close()

	var events []*models.TrackingEvent
	for rows.Next() {
		var ev models.TrackingEvent
		if err := rows.Scan(&ev.ID, &ev.PackageID, &ev.Status, &ev.Location, &ev.Description, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListEvents: %w", err)
		}
		events = append(events, &ev)
	}
	return events, nil
}
