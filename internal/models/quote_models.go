package models

import "time"

// Quote status values.
const (
	QuotePending  = "pending"
	QuoteQuoted   = "quoted"
	QuoteAccepted = "accepted"
	QuoteRejected = "rejected"
)

// Quote is a customer shipping-quote request handled by the admin portal.
type Quote struct {
	ID           string    `json:"id"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	WeightKg     float64   `json:"weight_kg"`
	ServiceLevel string    `json:"service_level"`
	ContactEmail string    `json:"contact_email"`
	Status       string    `json:"status"`
	QuotedAmount *float64  `json:"quoted_amount,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QuoteRequest is the public quote-request body.
type QuoteRequest struct {
	Origin       string  `json:"origin" validate:"required"`
	Destination  string  `json:"destination" validate:"required"`
	WeightKg     float64 `json:"weight_kg" validate:"required,gt=0"`
	ServiceLevel string  `json:"service_level" validate:"required,oneof=standard express overnight"`
	ContactEmail string  `json:"contact_email" validate:"required,email"`
}

// QuoteUpdateRequest is what an admin submits when pricing or resolving a quote.
type QuoteUpdateRequest struct {
	Status       *string  `json:"status,omitempty" validate:"omitempty,oneof=pending quoted accepted rejected"`
	QuotedAmount *float64 `json:"quoted_amount,omitempty" validate:"omitempty,gt=0"`
}
