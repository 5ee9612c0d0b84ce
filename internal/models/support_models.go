package models

import "time"

// Support ticket status values.
const (
	TicketOpen   = "open"
	TicketClosed = "closed"
)

// SupportTicket is a customer support conversation.
type SupportTicket struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SupportMessage is a single message within a ticket.
type SupportMessage struct {
	ID        int64     `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTicketRequest opens a ticket with an initial message.
type CreateTicketRequest struct {
	Subject       string `json:"subject" validate:"required"`
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	Message       string `json:"message" validate:"required"`
}

// PostMessageRequest appends a message to an existing ticket. The sender is
// taken from the authenticated caller, never from the body.
type PostMessageRequest struct {
	Body string `json:"body" validate:"required"`
}
