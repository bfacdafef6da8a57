package services

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
)

// ErrPaymentsNotConfigured is returned when no Stripe secret key is set.
var ErrPaymentsNotConfigured = errors.New("STRIPE_SECRET_KEY is not configured")

// defaultIntentAmount is charged when the client sends no usable amount; free
// courses still need a non-zero intent for the checkout widget to render.
const defaultIntentAmount = 50

// PaymentService is a thin wrapper over the payment processor. Settlement,
// webhooks and refunds stay with the processor.
type PaymentService struct {
	configured bool
}

func NewPaymentService(secretKey string) *PaymentService {
	if secretKey == "" {
		return &PaymentService{}
	}
	stripe.Key = secretKey
	return &PaymentService{configured: true}
}

// CreatePaymentIntent asks the processor for a payment intent over the given
// amount (minor units) and returns its client secret.
func (s *PaymentService) CreatePaymentIntent(amount int64) (string, error) {
	if !s.configured {
		return "", ErrPaymentsNotConfigured
	}
	if amount <= 0 {
		amount = defaultIntentAmount
	}

	intent, err := paymentintent.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
