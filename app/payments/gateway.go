// Package payments wraps the hosted-payment provider behind a Gateway
// capability. The implementation is chosen once at wiring time: the real
// Stripe client when credentials are configured, the auto-confirm
// gateway otherwise. Callers never branch on a "dev mode" flag.
package payments

import (
	"context"
	"errors"

	"github.com/soggypotatoes/shop/app/models"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
)

// CheckoutSession is the provider-side handle for one payment attempt.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
}

type PaymentIntent struct {
	ID     string
	Status string
}

// WebhookEvent is a signature-verified provider notification, reduced
// to the fields the order state machine correlates on.
type WebhookEvent struct {
	Type              string
	CheckoutSessionID string
	PaymentIntentID   string
	PaymentStatus     string
	OrderID           string
	OrderNumber       string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, order *models.Order, successURL, cancelURL string) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	RetrievePaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
	ConstructWebhookEvent(payload []byte, sigHeader string) (*WebhookEvent, error)

	// AutoConfirms reports whether checkout should fulfil orders inline
	// instead of redirecting to a hosted payment page.
	AutoConfirms() bool
}
