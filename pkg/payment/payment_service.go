package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// ServiceInterface defines the contract for a payment processing service.
type ServiceInterface interface {
	ProcessPayment(ctx context.Context, customerEmail string, amount float64, paymentMethodID string) (string, error)
}

// StripeService charges cards through Stripe payment intents.
type StripeService struct {
	apiKey string
}

func NewStripeService(apiKey string) *StripeService {
	if apiKey != "" {
		stripe.Key = apiKey
	}
	return &StripeService{apiKey: apiKey}
}

// ProcessPayment creates and confirms a payment intent for the given amount.
// Without an API key configured the charge is accepted locally, which keeps
// development environments working without a Stripe account.
func (s *StripeService) ProcessPayment(ctx context.Context, customerEmail string, amount float64, paymentMethodID string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid payment amount")
	}
	if s.apiKey == "" {
		return "sim_" + paymentMethodID, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(amount * 100)),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		ReceiptEmail:  stripe.String(customerEmail),
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("payment.ProcessPayment: %w", err)
	}
	return pi.ID, nil
}
