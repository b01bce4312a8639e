package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

// Event types the service reacts to
const (
	EventCheckoutCompleted    = "checkout.session.completed"
	EventPaymentIntentFailed  = "payment_intent.payment_failed"
	metadataUserID            = "user_id"
	metadataUserEmail         = "user_email"
	premiumProductDescription = "Unlimited invoices, email history, and premium features"
)

var ErrMissingSignature = errors.New("missing Stripe-Signature header")

// Config holds Stripe configuration
type Config struct {
	SecretKey     string
	WebhookSecret string
	PriceCents    int64
	Currency      string
	ProductName   string
	SuccessURL    string
	CancelURL     string
}

// CheckoutRequest describes the buyer of a premium upgrade
type CheckoutRequest struct {
	UserID    string
	UserEmail string
}

// CheckoutSession is the subset of a Stripe checkout session the service uses
type CheckoutSession struct {
	ID     string
	URL    string
	Paid   bool
	UserID string
}

// WebhookEvent is a verified webhook delivery
type WebhookEvent struct {
	ID      string
	Type    string
	Session *CheckoutSession // set for checkout events
}

// StripeClient wraps the Stripe API for premium checkouts
type StripeClient struct {
	api    *client.API
	config Config
}

// NewStripeClient creates a new Stripe client
func NewStripeClient(cfg Config) *StripeClient {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeClient{api: api, config: cfg}
}

// CreateCheckout starts a one-off card payment for the premium upgrade
func (s *StripeClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.config.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(s.config.ProductName),
						Description: stripe.String(premiumProductDescription),
					},
					UnitAmount: stripe.Int64(s.config.PriceCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(s.config.SuccessURL),
		CancelURL:     stripe.String(s.config.CancelURL),
		CustomerEmail: stripe.String(req.UserEmail),
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, req.UserID)
	params.AddMetadata(metadataUserEmail, req.UserEmail)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

// GetCheckout retrieves a checkout session by id
func (s *StripeClient) GetCheckout(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

// ParseWebhook verifies the signature header and decodes the event
func (s *StripeClient) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if signature == "" {
		return nil, ErrMissingSignature
	}

	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook signature: %w", err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type == EventCheckoutCompleted && event.Data != nil {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		out.Session = toCheckoutSession(&sess)
	}
	return out, nil
}

func toCheckoutSession(sess *stripe.CheckoutSession) *CheckoutSession {
	return &CheckoutSession{
		ID:     sess.ID,
		URL:    sess.URL,
		Paid:   sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		UserID: sess.Metadata[metadataUserID],
	}
}
