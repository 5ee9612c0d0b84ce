package notify

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipnix/shipnix-express/internal/models"
)

// Repository implements RepositoryInterface over Postgres.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (package_id, channel, recipient, subject, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, n.PackageID, n.Channel, n.Recipient, n.Subject, n.Message, n.Status).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository.InsertNotification: %w", err)
	}
	return nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, package_id, channel, recipient, subject, message, status, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("repository.ListRecentNotifications: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.PackageID, &n.Channel, &n.Recipient, &n.Subject, &n.Message, &n.Status, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListRecentNotifications: %w", err)
		}
		out = append(out, &n)
	}
	return out, nil
}
