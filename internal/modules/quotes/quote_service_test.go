package quotes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shipnix/shipnix-express/internal/models"
)

type fakeQuoteRepo struct {
	quotes map[string]*models.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[string]*models.Quote)}
}

func (f *fakeQuoteRepo) Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	q := &models.Quote{
		ID:           fmt.Sprintf("q-%d", len(f.quotes)+1),
		Origin:       req.Origin,
		Destination:  req.Destination,
		WeightKg:     req.WeightKg,
		ServiceLevel: req.ServiceLevel,
		ContactEmail: req.ContactEmail,
		Status:       models.QuotePending,
		CreatedAt:    time.Now(),
	}
	f.quotes[q.ID] = q
	cp := *q
	return &cp, nil
}

func (f *fakeQuoteRepo) FindByID(ctx context.Context, id string) (*models.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuoteRepo) ListAll(ctx context.Context, page, limit int) ([]*models.Quote, int, error) {
	out := make([]*models.Quote, 0, len(f.quotes))
	for _, q := range f.quotes {
		cp := *q
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeQuoteRepo) Update(ctx context.Context, id string, req models.QuoteUpdateRequest) (*models.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Status != nil {
		q.Status = *req.Status
	}
	if req.QuotedAmount != nil {
		q.QuotedAmount = req.QuotedAmount
	}
	cp := *q
	return &cp, nil
}

func TestEstimateCost(t *testing.T) {
	cases := []struct {
		weight float64
		level  string
		want   float64
	}{
		{2, "standard", 14.00},
		{2, "express", 23.00},
		{1.5, "overnight", 32.00},
		{2, "carrier_pigeon", 14.00}, // unknown level falls back to standard
	}
	for _, tt := range cases {
		got := estimateCost(tt.weight, tt.level)
		if got != tt.want {
			t.Errorf("estimateCost(%v, %s) = %.2f; want %.2f", tt.weight, tt.level, got, tt.want)
		}
	}
}

func TestQuoteCreateStartsPending(t *testing.T) {
	fr := newFakeQuoteRepo()
	svc := NewService(fr)

	q, err := svc.Create(context.Background(), models.QuoteRequest{
		Origin:       "Rotterdam",
		Destination:  "Oslo",
		WeightKg:     2,
		ServiceLevel: "express",
		ContactEmail: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if q.Status != models.QuotePending {
		t.Errorf("Status = %s; want pending", q.Status)
	}
	if q.QuotedAmount != nil {
		t.Errorf("QuotedAmount = %v; want nil before pricing", *q.QuotedAmount)
	}
}

func TestQuoteUpdateFillsEstimate(t *testing.T) {
	fr := newFakeQuoteRepo()
	svc := NewService(fr)
	q, _ := svc.Create(context.Background(), models.QuoteRequest{
		Origin:       "Rotterdam",
		Destination:  "Oslo",
		WeightKg:     2,
		ServiceLevel: "express",
		ContactEmail: "jane@example.com",
	})

	status := models.QuoteQuoted
	updated, err := svc.Update(context.Background(), q.ID, models.QuoteUpdateRequest{Status: &status})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.QuotedAmount == nil {
		t.Fatal("QuotedAmount = nil; want rate-table estimate")
	}
	if *updated.QuotedAmount != 23.00 {
		t.Errorf("QuotedAmount = %.2f; want 23.00", *updated.QuotedAmount)
	}
}

func TestQuoteUpdateKeepsExplicitAmount(t *testing.T) {
	fr := newFakeQuoteRepo()
	svc := NewService(fr)
	q, _ := svc.Create(context.Background(), models.QuoteRequest{
		Origin:       "Rotterdam",
		Destination:  "Oslo",
		WeightKg:     2,
		ServiceLevel: "express",
		ContactEmail: "jane@example.com",
	})

	status := models.QuoteQuoted
	amount := 99.99
	updated, err := svc.Update(context.Background(), q.ID, models.QuoteUpdateRequest{Status: &status, QuotedAmount: &amount})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if *updated.QuotedAmount != 99.99 {
		t.Errorf("QuotedAmount = %.2f; want 99.99 (admin override)", *updated.QuotedAmount)
	}
}
