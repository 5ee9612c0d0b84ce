package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipnix/shipnix-express/internal/models"
)

// RepositoryInterface defines the contract for the user repository.
type RepositoryInterface interface {
	Create(ctx context.Context, email, passwordHash, fullName, role string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	InsertAddress(ctx context.Context, userID string, req models.AddressRequest) (*models.Address, error)
	ListAddresses(ctx context.Context, userID string) ([]*models.Address, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new user repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, email, passwordHash, fullName, role string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, full_name, role, created_at, updated_at`
	user, err := scanUser(r.db.QueryRow(ctx, query, email, passwordHash, fullName, role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrEmailTaken
		}
		return nil, fmt.Errorf("repository.CreateUser: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, full_name, role, created_at, updated_at FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, email, password_hash, full_name, role, created_at, updated_at FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return user, nil
}

func (r *Repository) InsertAddress(ctx context.Context, userID string, req models.AddressRequest) (*models.Address, error) {
	query := `
		INSERT INTO addresses (user_id, label, full_name, street_address, city, country, phone, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, label, full_name, street_address, city, country, phone, is_default, created_at`
	var a models.Address
	err := r.db.QueryRow(ctx, query, userID, req.Label, req.FullName, req.StreetAddress, req.City, req.Country, req.Phone, req.IsDefault).
		Scan(&a.ID, &a.UserID, &a.Label, &a.FullName, &a.StreetAddress, &a.City, &a.Country, &a.Phone, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.InsertAddress: %w", err)
	}
	return &a, nil
}

func (r *Repository) ListAddresses(ctx context.Context, userID string) ([]*models.Address, error) {
	query := `
		SELECT id, user_id, label, full_name, street_address, city, country, phone, is_default, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAddresses: %w", err)
	}
	defer rows.Close()

	var out []*models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.FullName, &a.StreetAddress, &a.City, &a.Country, &a.Phone, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListAddresses: %w", err)
		}
		out = append(out, &a)
	}
	return out, nil
}
