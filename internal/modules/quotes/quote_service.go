package quotes

import (
	"context"
	"math"

	"github.com/shipnix/shipnix-express/internal/models"
)

// ServiceInterface defines the contract for the quote service.
type ServiceInterface interface {
	Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)
	List(ctx context.Context, page, limit int) ([]*models.Quote, int, error)
	Update(ctx context.Context, id string, req models.QuoteUpdateRequest) (*models.Quote, error)
}

// Service implements the quote service logic.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new quote service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Per-kg rates by service level, used to suggest a price when an admin marks
// a quote as quoted without supplying an amount.
var serviceLevelRates = map[string]float64{
	"standard":  4.50,
	"express":   9.00,
	"overnight": 18.00,
}

const baseFee = 5.00

func estimateCost(weightKg float64, serviceLevel string) float64 {
	rate, ok := serviceLevelRates[serviceLevel]
	if !ok {
		rate = serviceLevelRates["standard"]
	}
	return math.Round((baseFee+weightKg*rate)*100) / 100
}

func (s *Service) Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	return s.repo.Create(ctx, req)
}

func (s *Service) List(ctx context.Context, page, limit int) ([]*models.Quote, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListAll(ctx, page, limit)
}

// Update applies an admin decision to a quote. Moving to "quoted" without an
// explicit amount fills in the rate-table estimate.
func (s *Service) Update(ctx context.Context, id string, req models.QuoteUpdateRequest) (*models.Quote, error) {
	if req.Status != nil && *req.Status == models.QuoteQuoted && req.QuotedAmount == nil {
		quote, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		amount := estimateCost(quote.WeightKg, quote.ServiceLevel)
		req.QuotedAmount = &amount
	}
	return s.repo.Update(ctx, id, req)
}
