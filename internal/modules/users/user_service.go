package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shipnix/shipnix-express/internal/middleware"
	"github.com/shipnix/shipnix-express/internal/models"
)

// ServiceInterface defines the contract for the user service.
type ServiceInterface interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	SaveAddress(ctx context.Context, userID string, req models.AddressRequest) (*models.Address, error)
	ListAddresses(ctx context.Context, userID string) ([]*models.Address, error)
}

// Service implements the user service logic.
type Service struct {
	repo       RepositoryInterface
	jwtSecret  []byte
	adminEmail string
	tokenTTL   time.Duration
}

// NewService creates a new user service. Accounts registered with adminEmail
// get the admin role; everyone else is a customer.
func NewService(repo RepositoryInterface, jwtSecret, adminEmail string) *Service {
	return &Service{
		repo:       repo,
		jwtSecret:  []byte(jwtSecret),
		adminEmail: strings.ToLower(adminEmail),
		tokenTTL:   24 * time.Hour,
	}
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Register: %w", err)
	}

	email := strings.ToLower(req.Email)
	role := models.RoleCustomer
	if s.adminEmail != "" && email == s.adminEmail {
		role = models.RoleAdmin
	}

	user, err := s.repo.Create(ctx, email, string(hash), req.FullName, role)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if err == models.ErrNotFound {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	claims := &middleware.AuthClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("service.issueToken: %w", err)
	}
	return signed, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) SaveAddress(ctx context.Context, userID string, req models.AddressRequest) (*models.Address, error) {
	return s.repo.InsertAddress(ctx, userID, req)
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]*models.Address, error) {
	return s.repo.ListAddresses(ctx, userID)
}
