package models

import "time"

// Invoice status values.
const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
	InvoicePaid  = "paid"
	InvoiceVoid  = "void"
)

// Invoice bills a customer for a shipment. When Shipment is set, a paid
// invoice is converted into a Package.
type Invoice struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerEmail string                `json:"customer_email"`
	Amount        float64               `json:"amount"`
	Description   string                `json:"description,omitempty"`
	Status        string                `json:"status"`
	Shipment      *CreatePackageRequest `json:"shipment,omitempty"`
	PackageID     *string               `json:"package_id,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// CreateInvoiceRequest is the admin invoice-creation body.
type CreateInvoiceRequest struct {
	CustomerEmail string                `json:"customer_email" validate:"required,email"`
	Amount        float64               `json:"amount" validate:"required,gt=0"`
	Description   string                `json:"description,omitempty"`
	Shipment      *CreatePackageRequest `json:"shipment,omitempty"`
}

// PayInvoiceRequest carries the payment method used to settle an invoice.
type PayInvoiceRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}
