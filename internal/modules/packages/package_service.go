package packages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shipnix/shipnix-express/internal/metrics"
	"github.com/shipnix/shipnix-express/internal/models"
)

// NotifierInterface defines the contract for the notification dispatcher.
type NotifierInterface interface {
	DispatchStatusUpdate(ctx context.Context, pkg *models.Package, status string)
}

// PublisherInterface defines the contract for the real-time broadcast channel.
type PublisherInterface interface {
	Broadcast(msgType string, data interface{})
}

// ServiceInterface defines the contract for the package service.
type ServiceInterface interface {
	Create(ctx context.Context, userID string, req models.CreatePackageRequest) (*models.Package, string, error)
	CreatePaid(ctx context.Context, userID string, req models.CreatePackageRequest) (*models.Package, error)
	Get(ctx context.Context, id string) (*models.Package, []*models.TrackingEvent, error)
	List(ctx context.Context, page, limit int) ([]*models.Package, int, error)
	Update(ctx context.Context, id string, req models.UpdatePackageRequest) (*models.Package, error)
	UpdateStatus(ctx context.Context, id string, req models.StatusUpdateRequest) (*models.Package, error)
	Track(ctx context.Context, trackingID string) (*models.PublicPackageView, error)
}

// Service implements the package service logic.
type Service struct {
	repo      RepositoryInterface
	notifier  NotifierInterface
	publisher PublisherInterface
	prefix    string
	baseURL   string
}

// NewService creates a new package service. Notifier and publisher are
// optional; a nil value disables that side effect.
func NewService(repo RepositoryInterface, notifier NotifierInterface, publisher PublisherInterface, trackingPrefix, publicBaseURL string) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		prefix:    trackingPrefix,
		baseURL:   strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// codeAlphabet excludes ambiguous characters (0/O, 1/I) so codes survive
// being read over the phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const trackingSuffixLen = 9

func (s *Service) newTrackingCode() string {
	id := uuid.New()
	b := make([]byte, trackingSuffixLen)
	for i := range b {
		b[i] = codeAlphabet[int(id[i])%len(codeAlphabet)]
	}
	return s.prefix + string(b)
}

// TrackingURL returns the shareable tracking link for a code.
func (s *Service) TrackingURL(code string) string {
	return s.baseURL + "/track/" + code
}

// Create registers a new shipment with payment status pending.
func (s *Service) Create(ctx context.Context, userID string, req models.CreatePackageRequest) (*models.Package, string, error) {
	pkg, err := s.create(ctx, userID, req, models.PaymentPending)
	if err != nil {
		return nil, "", err
	}
	return pkg, s.TrackingURL(pkg.TrackingCode), nil
}

// CreatePaid registers a shipment that has already been paid for. This is
// the paid-invoice conversion path.
func (s *Service) CreatePaid(ctx context.Context, userID string, req models.CreatePackageRequest) (*models.Package, error) {
	return s.create(ctx, userID, req, models.PaymentPaid)
}

func (s *Service) create(ctx context.Context, userID string, req models.CreatePackageRequest, paymentStatus string) (*models.Package, error) {
	// Tracking codes are random; retry on the rare collision.
	for attempt := 0; attempt < 5; attempt++ {
		pkg, err := s.repo.Create(ctx, req, s.newTrackingCode(), paymentStatus, userID)
		if err == models.ErrConflict {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("service.CreatePackage: %w", err)
		}
		return pkg, nil
	}
	return nil, fmt.Errorf("service.CreatePackage: could not allocate a unique tracking code")
}

// Get retrieves a package and its full event timeline.
func (s *Service) Get(ctx context.Context, id string) (*models.Package, []*models.TrackingEvent, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.repo.ListEvents(ctx, pkg.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("service.GetPackage: %w", err)
	}
	return pkg, events, nil
}

// List returns all packages for the admin portal.
func (s *Service) List(ctx context.Context, page, limit int) ([]*models.Package, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListAll(ctx, page, limit)
}

// Update patches general package fields.
func (s *Service) Update(ctx context.Context, id string, req models.UpdatePackageRequest) (*models.Package, error) {
	return s.repo.Update(ctx, id, req)
}

// UpdateStatus is the status-update operation: it validates the target
// status, writes the package row and the tracking event together, then
// fires the best-effort side effects (notification, broadcast). Any status
// may follow any other; corrections are allowed.
func (s *Service) UpdateStatus(ctx context.Context, id string, req models.StatusUpdateRequest) (*models.Package, error) {
	if !models.IsValidStatus(req.Status) {
		return nil, models.ErrInvalidStatus
	}

	var deliveredAt *time.Time
	if req.Status == models.StatusDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
	}

	pkg, err := s.repo.UpdateStatus(ctx, id, req.Status, req.Location, models.StatusDescriptions[req.Status], deliveredAt)
	if err != nil {
		return nil, err
	}
	metrics.StatusUpdatesTotal.WithLabelValues(req.Status).Inc()

	// Side effects are best-effort and never fail the primary write. The
	// dispatcher talks to external providers, so it runs off-request.
	if s.notifier != nil {
		go func() {
			dctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			s.notifier.DispatchStatusUpdate(dctx, pkg, req.Status)
		}()
	}
	if s.publisher != nil {
		s.publisher.Broadcast("packageUpdate", pkg)
	}

	return pkg, nil
}

// Track serves the public tracking endpoint: a redacted package view plus
// the full event timeline, looked up by tracking code.
func (s *Service) Track(ctx context.Context, trackingID string) (*models.PublicPackageView, error) {
	if !strings.HasPrefix(trackingID, s.prefix) {
		return nil, models.ErrNotFound
	}
	pkg, err := s.repo.FindByTrackingCode(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("service.Track: %w", err)
	}

	view := &models.PublicPackageView{
		TrackingCode:      pkg.TrackingCode,
		SenderName:        pkg.SenderName,
		RecipientName:     pkg.RecipientName,
		CurrentStatus:     pkg.CurrentStatus,
		CurrentLocation:   pkg.CurrentLocation,
		EstimatedDelivery: pkg.EstimatedDelivery,
		ActualDelivery:    pkg.ActualDelivery,
		Events:            make([]models.PublicTrackingEvent, 0, len(events)),
	}
	for _, ev := range events {
		view.Events = append(view.Events, models.PublicTrackingEvent{
			Status:      ev.Status,
			Location:    ev.Location,
			Description: ev.Description,
			CreatedAt:   ev.CreatedAt,
		})
	}
	return view, nil
}
