package support

import (
	"context"
	"fmt"

	"github.com/shipnix/shipnix-express/internal/models"
)

// PublisherInterface pushes live chat events to connected clients.
type PublisherInterface interface {
	Broadcast(eventType string, data interface{})
}

// ServiceInterface defines the contract for the support service.
type ServiceInterface interface {
	OpenTicket(ctx context.Context, req models.CreateTicketRequest) (*models.SupportTicket, error)
	GetTicket(ctx context.Context, id string) (*models.SupportTicket, []*models.SupportMessage, error)
	ListTickets(ctx context.Context, page, limit int) ([]*models.SupportTicket, int, error)
	PostMessage(ctx context.Context, ticketID, sender string, req models.PostMessageRequest) (*models.SupportMessage, error)
}

// Service implements the ServiceInterface.
type Service struct {
	repo      RepositoryInterface
	publisher PublisherInterface
}

// NewService creates a new support service.
func NewService(repo RepositoryInterface, publisher PublisherInterface) ServiceInterface {
	return &Service{repo: repo, publisher: publisher}
}

func (s *Service) OpenTicket(ctx context.Context, req models.CreateTicketRequest) (*models.SupportTicket, error) {
	ticket, err := s.repo.CreateTicket(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("service.OpenTicket: %w", err)
	}
	return ticket, nil
}

func (s *Service) GetTicket(ctx context.Context, id string) (*models.SupportTicket, []*models.SupportMessage, error) {
	ticket, err := s.repo.FindTicket(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("service.GetTicket: %w", err)
	}
	return ticket, msgs, nil
}

func (s *Service) ListTickets(ctx context.Context, page, limit int) ([]*models.SupportTicket, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListTickets(ctx, page, limit)
}

// PostMessage appends a message to an existing ticket and pushes it to
// connected clients as a chatMessage event.
func (s *Service) PostMessage(ctx context.Context, ticketID, sender string, req models.PostMessageRequest) (*models.SupportMessage, error) {
	if _, err := s.repo.FindTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	msg, err := s.repo.InsertMessage(ctx, ticketID, sender, req.Body)
	if err != nil {
		return nil, fmt.Errorf("service.PostMessage: %w", err)
	}
	if s.publisher != nil {
		s.publisher.Broadcast("chatMessage", msg)
	}
	return msg, nil
}
