package models

import "time"

// User roles.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents an account in the system. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the body of the registration call.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the signed token and the authenticated user.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Address is a saved address in a user's address book, used to prefill
// sender/recipient fields in the admin portal's package form.
type Address struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Label         string    `json:"label"`
	FullName      string    `json:"full_name"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city,omitempty"`
	Country       string    `json:"country,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddressRequest is the body for saving an address.
type AddressRequest struct {
	Label         string `json:"label" validate:"required"`
	FullName      string `json:"full_name" validate:"required"`
	StreetAddress string `json:"street_address" validate:"required"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
	Phone         string `json:"phone,omitempty"`
	IsDefault     bool   `json:"is_default"`
}
