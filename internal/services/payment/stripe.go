package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"
)

// TransferGroup names the processor transfer group for an order.
func TransferGroup(orderID uint) string {
	return fmt.Sprintf("order-%d", orderID)
}

func orderIDFromReference(ref string) uint {
	id, err := strconv.ParseUint(strings.TrimPrefix(ref, "order-"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

type stripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates a Gateway backed by Stripe Checkout and Connect.
func NewStripeGateway(secretKey, webhookSecret string) Gateway {
	return &stripeGateway{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		ClientReferenceID:  stripe.String(TransferGroup(req.OrderID)),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			TransferGroup: stripe.String(TransferGroup(req.OrderID)),
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for _, line := range req.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(line.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(line.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		})
	}
	params.AddMetadata("order_id", strconv.FormatUint(uint64(req.OrderID), 10))
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		log.Printf("⚠️ Stripe checkout session for order %d failed: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if g.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Kind: EventIgnored}
	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Kind = EventCheckoutCompleted
		if event.Type == "checkout.session.expired" {
			out.Kind = EventCheckoutExpired
		}
		out.SessionID = sess.ID
		out.OrderID = orderIDFromReference(sess.ClientReferenceID)
		if sess.PaymentIntent != nil {
			out.PaymentIntentID = sess.PaymentIntent.ID
		}
	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.Kind = EventPaymentFailed
		out.PaymentIntentID = pi.ID
		out.OrderID = orderIDFromReference(pi.TransferGroup)
	}
	return out, nil
}

func (g *stripeGateway) CreateTransfer(ctx context.Context, req TransferRequest) (string, error) {
	params := &stripe.TransferParams{
		Amount:        stripe.Int64(req.AmountCents),
		Currency:      stripe.String(req.Currency),
		Destination:   stripe.String(req.Destination),
		TransferGroup: stripe.String(req.TransferGroup),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	tr, err := g.api.Transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return tr.ID, nil
}

func (g *stripeGateway) CreateRefund(ctx context.Context, req RefundRequest) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntentID),
		Amount:        stripe.Int64(req.AmountCents),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	rf, err := g.api.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return rf.ID, nil
}
