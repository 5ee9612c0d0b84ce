package models

import "time"

// Notification channels and delivery outcomes.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// Notification records one delivery attempt to a package recipient.
type Notification struct {
	ID        int64     `json:"id"`
	PackageID string    `json:"package_id"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
