package invoices

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/shipnix/shipnix-express/internal/models"
)

// PaymentServiceInterface defines the contract for a payment processing service.
type PaymentServiceInterface interface {
	ProcessPayment(ctx context.Context, customerEmail string, amount float64, paymentMethodID string) (string, error)
}

// PackageCreatorInterface is the slice of the package service used to
// convert a paid invoice into a shipment.
type PackageCreatorInterface interface {
	CreatePaid(ctx context.Context, userID string, req models.CreatePackageRequest) (*models.Package, error)
}

// ServiceInterface defines the contract for the invoice service.
type ServiceInterface interface {
	Create(ctx context.Context, req models.CreateInvoiceRequest) (*models.Invoice, error)
	Get(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, page, limit int) ([]*models.Invoice, int, error)
	Pay(ctx context.Context, userID, invoiceID string, req models.PayInvoiceRequest) (*models.Invoice, error)
}

// Service implements the invoice service logic.
type Service struct {
	repo           RepositoryInterface
	paymentService PaymentServiceInterface
	packageCreator PackageCreatorInterface
}

// NewService creates a new invoice service.
func NewService(repo RepositoryInterface, paymentService PaymentServiceInterface, packageCreator PackageCreatorInterface) *Service {
	return &Service{
		repo:           repo,
		paymentService: paymentService,
		packageCreator: packageCreator,
	}
}

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newInvoiceNumber() string {
	id := uuid.New()
	b := make([]byte, 8)
	for i := range b {
		b[i] = numberAlphabet[int(id[i])%len(numberAlphabet)]
	}
	return "INV-" + string(b)
}

func (s *Service) Create(ctx context.Context, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	// Invoice numbers are random; retry on the rare collision.
	for attempt := 0; attempt < 5; attempt++ {
		inv, err := s.repo.Create(ctx, newInvoiceNumber(), req)
		if err == models.ErrConflict {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("service.CreateInvoice: %w", err)
		}
		return inv, nil
	}
	return nil, fmt.Errorf("service.CreateInvoice: could not allocate a unique invoice number")
}

func (s *Service) Get(ctx context.Context, id string) (*models.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page, limit int) ([]*models.Invoice, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListAll(ctx, page, limit)
}

// Pay settles an invoice through the payment service. When the invoice
// carries shipment details, the paid invoice is converted into a package
// with payment status already set to paid.
func (s *Service) Pay(ctx context.Context, userID, invoiceID string, req models.PayInvoiceRequest) (*models.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvoiceSent && inv.Status != models.InvoiceDraft {
		return nil, models.ErrInvoiceNotPayable
	}

	if _, err := s.paymentService.ProcessPayment(ctx, inv.CustomerEmail, inv.Amount, req.PaymentMethodID); err != nil {
		return nil, fmt.Errorf("payment processing failed: %w", err)
	}

	var packageID *string
	if inv.Shipment != nil {
		pkg, err := s.packageCreator.CreatePaid(ctx, userID, *inv.Shipment)
		if err != nil {
			// The charge went through; record the paid invoice anyway and
			// leave the conversion for manual follow-up.
			log.Printf("CRITICAL: invoice %s paid but package conversion failed: %v", inv.InvoiceNumber, err)
		} else {
			packageID = &pkg.ID
		}
	}

	paid, err := s.repo.MarkPaid(ctx, invoiceID, packageID)
	if err != nil {
		log.Printf("CRITICAL: payment processed for invoice %s but failed to update status: %v", inv.InvoiceNumber, err)
		return nil, fmt.Errorf("failed to update invoice after successful payment: %w", err)
	}
	return paid, nil
}
