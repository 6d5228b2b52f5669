// Package payment wraps the card processor behind Gateway so checkout logic
// can be exercised without network calls.
package payment

import (
	"context"

	apperrors "marketplace/internal/errors"
)

var (
	ErrProvider         = apperrors.Upstream("PAYMENT_PROVIDER_ERROR", "payment processor request failed")
	ErrInvalidSignature = apperrors.Validation("INVALID_WEBHOOK_SIGNATURE", "webhook signature verification failed")
	ErrNotConfigured    = apperrors.Internal("PAYMENT_NOT_CONFIGURED", "payment processor is not configured")
)

type CheckoutLine struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

type CheckoutRequest struct {
	OrderID        uint
	Currency       string
	CustomerEmail  string
	Lines          []CheckoutLine
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type EventKind string

const (
	EventCheckoutCompleted EventKind = "checkout_completed"
	EventCheckoutExpired   EventKind = "checkout_expired"
	EventPaymentFailed     EventKind = "payment_failed"
	EventIgnored           EventKind = "ignored"
)

// WebhookEvent is a verified processor event reduced to what checkout needs.
type WebhookEvent struct {
	ID              string
	Kind            EventKind
	SessionID       string
	PaymentIntentID string
	// OrderID is taken from the session reference or transfer group, 0 if absent.
	OrderID uint
}

type TransferRequest struct {
	AmountCents    int64
	Currency       string
	Destination    string
	TransferGroup  string
	IdempotencyKey string
}

type RefundRequest struct {
	PaymentIntentID string
	AmountCents     int64
	IdempotencyKey  string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
	CreateTransfer(ctx context.Context, req TransferRequest) (string, error)
	CreateRefund(ctx context.Context, req RefundRequest) (string, error)
}
