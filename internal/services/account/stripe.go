package account

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"github.com/magabrotheeeer/destipicker/internal/config"
)

// StripeCheckout создаёт разовую оплату через Stripe Checkout.
type StripeCheckout struct {
	sessions session.Client
	cfg      config.Stripe
}

// NewStripeCheckout создаёт провайдера. backend может быть nil: тогда используется API Stripe.
func NewStripeCheckout(cfg config.Stripe, backend stripe.Backend) *StripeCheckout {
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	return &StripeCheckout{
		sessions: session.Client{B: backend, Key: cfg.SecretKey},
		cfg:      cfg,
	}
}

// CreateCheckout создаёт сессию оплаты. Идентификатор пользователя передаётся
// в client_reference_id и возвращается вебхуком.
func (c *StripeCheckout) CreateCheckout(ctx context.Context, p CheckoutParams) (string, error) {
	const op = "account.StripeCheckout.CreateCheckout"
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(c.cfg.ProductName),
						Description: stripe.String("Unlimited decisions and premium picks"),
					},
					UnitAmount: stripe.Int64(c.cfg.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		ClientReferenceID: stripe.String(p.UserID),
		Metadata:          map[string]string{"feature": "unlimited_unlock"},
	}
	if p.Email != "" {
		params.CustomerEmail = stripe.String(p.Email)
	}
	params.Context = ctx

	sess, err := c.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sess.URL, nil
}
