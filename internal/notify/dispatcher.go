package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/shipnix/shipnix-express/internal/metrics"
	"github.com/shipnix/shipnix-express/internal/models"
)

// RepositoryInterface persists notification delivery records.
type RepositoryInterface interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListRecent(ctx context.Context, limit int) ([]*models.Notification, error)
}

type messageTemplate struct {
	subject string
	body    string
}

// statusTemplates holds the canned message per package status. Both strings
// take the tracking code as their single format argument.
var statusTemplates = map[string]messageTemplate{
	models.StatusCreated:        {"Your shipment is registered", "Package %s has been registered and is awaiting pickup."},
	models.StatusPickedUp:       {"Your package was picked up", "Package %s has been picked up by our courier."},
	models.StatusInTransit:      {"Your package is on its way", "Package %s is in transit to the destination facility."},
	models.StatusOutForDelivery: {"Your package is out for delivery", "Package %s is out for delivery and will arrive today."},
	models.StatusDelivered:      {"Your package was delivered", "Package %s has been delivered. Thank you for shipping with Shipnix-Express."},
	models.StatusFailedDelivery: {"Delivery attempt failed", "We could not deliver package %s. Our team will attempt delivery again."},
	models.StatusReturned:       {"Your package was returned", "Package %s has been returned to the sender."},
}

// Dispatcher fans a status change out to the recipient's contact channels.
type Dispatcher struct {
	repo  RepositoryInterface
	email Sender
	sms   Sender
}

func NewDispatcher(repo RepositoryInterface, email, sms Sender) *Dispatcher {
	return &Dispatcher{repo: repo, email: email, sms: sms}
}

// DispatchStatusUpdate notifies the package recipient over every channel the
// package has contact details for. Each channel is independent and
// best-effort: failures are recorded and logged, never returned.
func (d *Dispatcher) DispatchStatusUpdate(ctx context.Context, pkg *models.Package, status string) {
	subject, body := messageFor(pkg.TrackingCode, status)

	if pkg.RecipientEmail != nil && *pkg.RecipientEmail != "" {
		d.deliver(ctx, pkg.ID, models.ChannelEmail, *pkg.RecipientEmail, subject, body, d.email)
	}
	if pkg.RecipientPhone != nil && *pkg.RecipientPhone != "" {
		d.deliver(ctx, pkg.ID, models.ChannelSMS, *pkg.RecipientPhone, subject, body, d.sms)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, packageID, channel, recipient, subject, body string, s Sender) {
	n := &models.Notification{
		PackageID: packageID,
		Channel:   channel,
		Recipient: recipient,
		Subject:   subject,
		Message:   body,
		Status:    models.NotificationSent,
	}
	if err := s.Send(ctx, recipient, subject, body); err != nil {
		n.Status = models.NotificationFailed
		log.Printf("notify: %s delivery to %s failed: %v", channel, recipient, err)
	}
	metrics.NotificationsTotal.WithLabelValues(channel, n.Status).Inc()
	if err := d.repo.Insert(ctx, n); err != nil {
		log.Printf("notify: failed to record %s notification: %v", channel, err)
	}
}

// ListRecent exposes persisted notification records for the admin portal.
func (d *Dispatcher) ListRecent(ctx context.Context, limit int) ([]*models.Notification, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return d.repo.ListRecent(ctx, limit)
}

func messageFor(trackingCode, status string) (subject, body string) {
	tpl, ok := statusTemplates[status]
	if !ok {
		return "Shipment update", fmt.Sprintf("Package %s status updated to %s.", trackingCode, status)
	}
	return tpl.subject, fmt.Sprintf(tpl.body, trackingCode)
}
