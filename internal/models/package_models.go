package models

import "time"

// Package status lifecycle values. The progression below is the typical
// path, but any status may be written after any other; corrections from
// the admin portal are allowed.
const (
	StatusCreated        = "created"
	StatusPickedUp       = "picked_up"
	StatusInTransit      = "in_transit"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusFailedDelivery = "failed_delivery"
	StatusReturned       = "returned"
)

// PackageStatuses lists every legal value of the status enum.
var PackageStatuses = []string{
	StatusCreated,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusFailedDelivery,
	StatusReturned,
}

// IsValidStatus reports whether s is a member of the package status enum.
func IsValidStatus(s string) bool {
	for _, v := range PackageStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// StatusDescriptions maps each status to the human-readable line written
// into the tracking event timeline.
var StatusDescriptions = map[string]string{
	StatusCreated:        "Package has been registered and is awaiting pickup",
	StatusPickedUp:       "Package has been picked up by our courier",
	StatusInTransit:      "Package is in transit to the destination facility",
	StatusOutForDelivery: "Package is out for delivery",
	StatusDelivered:      "Package has been delivered",
	StatusFailedDelivery: "Delivery attempt failed, package returned to facility",
	StatusReturned:       "Package has been returned to the sender",
}

// Payment method values accepted at package creation.
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodBitcoin      = "bitcoin"
	PaymentMethodEthereum     = "ethereum"
	PaymentMethodUSDC         = "usdc"
	PaymentMethodPaypal       = "paypal"
)

// Payment status values.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Package represents a shipment in the system.
type Package struct {
	ID                string     `json:"id"`
	TrackingCode      string     `json:"tracking_code"`
	SenderName        string     `json:"sender_name"`
	SenderAddress     string     `json:"sender_address"`
	SenderPhone       *string    `json:"sender_phone,omitempty"`
	SenderEmail       *string    `json:"sender_email,omitempty"`
	RecipientName     string     `json:"recipient_name"`
	RecipientAddress  string     `json:"recipient_address"`
	RecipientPhone    *string    `json:"recipient_phone,omitempty"`
	RecipientEmail    *string    `json:"recipient_email,omitempty"`
	WeightKg          float64    `json:"weight_kg"`
	Dimensions        string     `json:"dimensions,omitempty"`
	Description       string     `json:"description,omitempty"`
	ShippingCost      float64    `json:"shipping_cost"`
	PaymentMethod     string     `json:"payment_method"`
	PaymentStatus     string     `json:"payment_status"`
	CurrentStatus     string     `json:"current_status"`
	CurrentLocation   *string    `json:"current_location,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
	CreatedBy         string     `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TrackingEvent is one entry in a package's append-only status timeline.
type TrackingEvent struct {
	ID          int64     `json:"id"`
	PackageID   string    `json:"package_id"`
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePackageRequest carries the fields an admin submits to register a shipment.
type CreatePackageRequest struct {
	SenderName        string     `json:"sender_name" validate:"required"`
	SenderAddress     string     `json:"sender_address" validate:"required"`
	SenderPhone       *string    `json:"sender_phone,omitempty"`
	SenderEmail       *string    `json:"sender_email,omitempty" validate:"omitempty,email"`
	RecipientName     string     `json:"recipient_name" validate:"required"`
	RecipientAddress  string     `json:"recipient_address" validate:"required"`
	RecipientPhone    *string    `json:"recipient_phone,omitempty"`
	RecipientEmail    *string    `json:"recipient_email,omitempty" validate:"omitempty,email"`
	WeightKg          float64    `json:"weight_kg" validate:"required,gt=0"`
	Dimensions        string     `json:"dimensions,omitempty"`
	Description       string     `json:"description,omitempty"`
	ShippingCost      float64    `json:"shipping_cost" validate:"gte=0"`
	PaymentMethod     string     `json:"payment_method" validate:"required,oneof=card bank_transfer bitcoin ethereum usdc paypal"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

// UpdatePackageRequest holds the fields an admin may patch on an existing
// package. The tracking code and creator are immutable and deliberately absent.
type UpdatePackageRequest struct {
	SenderName        *string    `json:"sender_name,omitempty"`
	SenderAddress     *string    `json:"sender_address,omitempty"`
	SenderPhone       *string    `json:"sender_phone,omitempty"`
	SenderEmail       *string    `json:"sender_email,omitempty" validate:"omitempty,email"`
	RecipientName     *string    `json:"recipient_name,omitempty"`
	RecipientAddress  *string    `json:"recipient_address,omitempty"`
	RecipientPhone    *string    `json:"recipient_phone,omitempty"`
	RecipientEmail    *string    `json:"recipient_email,omitempty" validate:"omitempty,email"`
	WeightKg          *float64   `json:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	Dimensions        *string    `json:"dimensions,omitempty"`
	Description       *string    `json:"description,omitempty"`
	ShippingCost      *float64   `json:"shipping_cost,omitempty" validate:"omitempty,gte=0"`
	PaymentMethod     *string    `json:"payment_method,omitempty" validate:"omitempty,oneof=card bank_transfer bitcoin ethereum usdc paypal"`
	PaymentStatus     *string    `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed refunded"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

// StatusUpdateRequest is the body of the admin status-update call.
type StatusUpdateRequest struct {
	Status   string  `json:"status" validate:"required,oneof=created picked_up in_transit out_for_delivery delivered failed_delivery returned"`
	Location *string `json:"location,omitempty"`
}

// PublicPackageView is the redacted shape served by the unauthenticated
// tracking endpoint. No internal IDs, creator, or payment details.
type PublicPackageView struct {
	TrackingCode      string                `json:"tracking_code"`
	SenderName        string                `json:"sender_name"`
	RecipientName     string                `json:"recipient_name"`
	CurrentStatus     string                `json:"current_status"`
	CurrentLocation   *string               `json:"current_location,omitempty"`
	EstimatedDelivery *time.Time            `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time            `json:"actual_delivery,omitempty"`
	Events            []PublicTrackingEvent `json:"events"`
}

// PublicTrackingEvent is a tracking event without row or package identifiers.
type PublicTrackingEvent struct {
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
