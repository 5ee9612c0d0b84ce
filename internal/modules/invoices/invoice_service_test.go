package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shipnix/shipnix-express/internal/models"
)

type fakeInvoiceRepo struct {
	invoices map[string]*models.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*models.Invoice)}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoiceNumber string, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			return nil, models.ErrConflict
		}
	}
	inv := &models.Invoice{
		ID:            fmt.Sprintf("inv-%d", len(f.invoices)+1),
		InvoiceNumber: invoiceNumber,
		CustomerEmail: req.CustomerEmail,
		Amount:        req.Amount,
		Description:   req.Description,
		Status:        models.InvoiceSent,
		Shipment:      req.Shipment,
		CreatedAt:     time.Now(),
	}
	f.invoices[inv.ID] = inv
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) ListAll(ctx context.Context, page, limit int) ([]*models.Invoice, int, error) {
	out := make([]*models.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		cp := *inv
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeInvoiceRepo) MarkPaid(ctx context.Context, id string, packageID *string) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	inv.Status = models.InvoicePaid
	if packageID != nil {
		inv.PackageID = packageID
	}
	cp := *inv
	return &cp, nil
}

type fakePayments struct {
	charges []float64
	err     error
}

func (f *fakePayments) ProcessPayment(ctx context.Context, customerEmail string, amount float64, paymentMethodID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.charges = append(f.charges, amount)
	return "pi_test_123", nil
}

type fakePackageCreator struct {
	created []models.CreatePackageRequest
	err     error
}

func (f *fakePackageCreator) CreatePaid(ctx context.Context, userID string, req models.CreatePackageRequest) (*models.Package, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &models.Package{
		ID:            fmt.Sprintf("pkg-%d", len(f.created)),
		TrackingCode:  "ST-FROMINV23",
		PaymentStatus: models.PaymentPaid,
	}, nil
}

func shipmentReq() *models.CreatePackageRequest {
	return &models.CreatePackageRequest{
		SenderName:       "Acme Exports",
		SenderAddress:    "1 Industrial Way",
		RecipientName:    "Jane Doe",
		RecipientAddress: "42 Elm Street",
		WeightKg:         2.5,
		PaymentMethod:    models.PaymentMethodCard,
	}
}

func TestCreateInvoiceNumberFormat(t *testing.T) {
	fr := newFakeInvoiceRepo()
	svc := NewService(fr, &fakePayments{}, &fakePackageCreator{})

	inv, err := svc.Create(context.Background(), models.CreateInvoiceRequest{
		CustomerEmail: "jane@example.com",
		Amount:        120.50,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-") || len(inv.InvoiceNumber) != len("INV-")+8 {
		t.Errorf("InvoiceNumber = %q; want INV- plus 8 characters", inv.InvoiceNumber)
	}
	if inv.Status != models.InvoiceSent {
		t.Errorf("Status = %s; want sent", inv.Status)
	}
}

func TestPayConvertsShipmentInvoice(t *testing.T) {
	fr := newFakeInvoiceRepo()
	payments := &fakePayments{}
	creator := &fakePackageCreator{}
	svc := NewService(fr, payments, creator)

	inv, _ := svc.Create(context.Background(), models.CreateInvoiceRequest{
		CustomerEmail: "jane@example.com",
		Amount:        120.50,
		Shipment:      shipmentReq(),
	})

	paid, err := svc.Pay(context.Background(), "user-1", inv.ID, models.PayInvoiceRequest{PaymentMethodID: "pm_card_visa"})
	if err != nil {
		t.Fatalf("Pay error: %v", err)
	}
	if paid.Status != models.InvoicePaid {
		t.Errorf("Status = %s; want paid", paid.Status)
	}
	if len(payments.charges) != 1 || payments.charges[0] != 120.50 {
		t.Errorf("charges = %v; want [120.50]", payments.charges)
	}
	if len(creator.created) != 1 {
		t.Fatalf("packages created = %d; want 1", len(creator.created))
	}
	if paid.PackageID == nil {
		t.Error("PackageID = nil; want linked package")
	}
}

func TestPayWithoutShipmentSkipsConversion(t *testing.T) {
	fr := newFakeInvoiceRepo()
	creator := &fakePackageCreator{}
	svc := NewService(fr, &fakePayments{}, creator)

	inv, _ := svc.Create(context.Background(), models.CreateInvoiceRequest{
		CustomerEmail: "jane@example.com",
		Amount:        45,
	})

	paid, err := svc.Pay(context.Background(), "user-1", inv.ID, models.PayInvoiceRequest{PaymentMethodID: "pm_card_visa"})
	if err != nil {
		t.Fatalf("Pay error: %v", err)
	}
	if len(creator.created) != 0 {
		t.Errorf("packages created = %d; want 0", len(creator.created))
	}
	if paid.PackageID != nil {
		t.Errorf("PackageID = %v; want nil", *paid.PackageID)
	}
}

func TestPayRejectsAlreadyPaidInvoice(t *testing.T) {
	fr := newFakeInvoiceRepo()
	payments := &fakePayments{}
	svc := NewService(fr, payments, &fakePackageCreator{})

	inv, _ := svc.Create(context.Background(), models.CreateInvoiceRequest{
		CustomerEmail: "jane@example.com",
		Amount:        45,
	})
	if _, err := svc.Pay(context.Background(), "user-1", inv.ID, models.PayInvoiceRequest{PaymentMethodID: "pm_card_visa"}); err != nil {
		t.Fatalf("first Pay error: %v", err)
	}

	_, err := svc.Pay(context.Background(), "user-1", inv.ID, models.PayInvoiceRequest{PaymentMethodID: "pm_card_visa"})
	if err != models.ErrInvoiceNotPayable {
		t.Fatalf("second Pay error = %v; want ErrInvoiceNotPayable", err)
	}
	if len(payments.charges) != 1 {
		t.Errorf("charges = %d; want 1 (no double charge)", len(payments.charges))
	}
}

func TestPayDeclinedLeavesInvoiceUnpaid(t *testing.T) {
	fr := newFakeInvoiceRepo()
	svc := NewService(fr, &fakePayments{err: errors.New("card declined")}, &fakePackageCreator{})

	inv, _ := svc.Create(context.Background(), models.CreateInvoiceRequest{
		CustomerEmail: "jane@example.com",
		Amount:        45,
		Shipment:      shipmentReq(),
	})

	_, err := svc.Pay(context.Background(), "user-1", inv.ID, models.PayInvoiceRequest{PaymentMethodID: "pm_card_visa"})
	if err == nil {
		t.Fatal("Pay error = nil; want declined error")
	}
	got, _ := fr.FindByID(context.Background(), inv.ID)
	if got.Status != models.InvoiceSent {
		t.Errorf("Status = %s; want sent (unchanged)", got.Status)
	}
}

func TestPayMarksPaidEvenIfConversionFails(t *testing.T) {
	fr := newFakeInvoiceRepo()
	creator := &fakePackageCreator{err: errors.New("db down")}
	svc := NewService(fr, &fakePayments{}, creator)

	inv, _ := svc.Create(context.Background(), models.CreateInvoiceRequest{
		CustomerEmail: "jane@example.com",
		Amount:        45,
		Shipment:      shipmentReq(),
	})

	paid, err := svc.Pay(context.Background(), "user-1", inv.ID, models.PayInvoiceRequest{PaymentMethodID: "pm_card_visa"})
	if err != nil {
		t.Fatalf("Pay error: %v", err)
	}
	// The charge went through; the invoice must still settle.
	if paid.Status != models.InvoicePaid {
		t.Errorf("Status = %s; want paid", paid.Status)
	}
	if paid.PackageID != nil {
		t.Errorf("PackageID = %v; want nil after failed conversion", *paid.PackageID)
	}
}
