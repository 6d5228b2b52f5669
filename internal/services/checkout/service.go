// Package checkout turns carts into orders, collects payment through the
// payment gateway and pays sellers out once the buyer's payment settles.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services/notification"
	"marketplace/internal/services/payment"
	"marketplace/internal/services/settings"
)

type Config struct {
	Currency   string
	SuccessURL string
	CancelURL  string
	AdminEmail string
}

type Result struct {
	Order       *models.Order `json:"order"`
	SessionID   string        `json:"session_id"`
	CheckoutURL string        `json:"checkout_url"`
}

// PayoutResult counts what happened to each seller row of an order.
type PayoutResult struct {
	Released int `json:"released"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	CreateCheckout(ctx context.Context, buyerID uint, req QuoteRequest) (*Result, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ReleasePayouts(ctx context.Context, orderID uint) (*PayoutResult, error)
	RequestRefund(ctx context.Context, buyerID, orderID uint, refundType string) (*models.Order, error)
	ProcessRefund(ctx context.Context, adminID, orderID uint) (*models.Order, error)
	GetOrder(ctx context.Context, actor models.Actor, orderID uint) (*models.Order, error)
}

type service struct {
	store    repositories.Store
	settings settings.Service
	gateway  payment.Gateway
	cfg      Config
}

func NewService(store repositories.Store, settingsSvc settings.Service, gateway payment.Gateway, cfg Config) Service {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &service{store: store, settings: settingsSvc, gateway: gateway, cfg: cfg}
}

func (s *service) CreateCheckout(ctx context.Context, buyerID uint, req QuoteRequest) (*Result, error) {
	buyer, err := s.store.Users().FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer.IsSuspended() {
		return nil, ErrBuyerSuspended
	}

	quote, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	order := newOrder(buyerID, quote)
	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		OrderID:        order.ID,
		Currency:       order.Currency,
		CustomerEmail:  buyer.Email,
		Lines:          checkoutLines(order),
		SuccessURL:     s.cfg.SuccessURL,
		CancelURL:      s.cfg.CancelURL,
		IdempotencyKey: fmt.Sprintf("checkout-order-%d", order.ID),
	})
	if err != nil {
		order.PaymentStatus = models.PaymentFailed
		if uerr := s.store.Orders().UpdatePayment(ctx, order, models.PaymentPending); uerr != nil {
			log.Printf("⚠️ Failed to mark order %d as failed: %v", order.ID, uerr)
		}
		return nil, err
	}

	if err := s.store.Orders().SetCheckoutSession(ctx, order.ID, sess.ID); err != nil {
		return nil, fmt.Errorf("save checkout session: %w", err)
	}
	order.CheckoutSessionID = sess.ID

	log.Printf("✅ Order %d created for buyer %d (%d cents)", order.ID, buyerID, order.OrderTotalCents)
	return &Result{Order: order, SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if ev.Kind == payment.EventIgnored {
		return nil
	}

	order, err := s.orderForEvent(ctx, ev)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Nothing to update; acknowledge so the processor stops retrying.
		log.Printf("⚠️ Webhook %s does not match any order", ev.ID)
		return nil
	}
	if err != nil {
		return err
	}

	switch ev.Kind {
	case payment.EventCheckoutCompleted:
		if err := s.markPaid(ctx, order, ev.PaymentIntentID); err != nil {
			return err
		}
		if order.PaymentStatus != models.PaymentPaid {
			return nil
		}
		if _, err := s.ReleasePayouts(ctx, order.ID); err != nil {
			log.Printf("⚠️ Payout release for order %d failed: %v", order.ID, err)
		}
		return nil
	case payment.EventCheckoutExpired, payment.EventPaymentFailed:
		return s.markFailed(ctx, order)
	}
	return nil
}

func (s *service) orderForEvent(ctx context.Context, ev *payment.WebhookEvent) (*models.Order, error) {
	if ev.SessionID != "" {
		order, err := s.store.Orders().FindByCheckoutSession(ctx, ev.SessionID)
		if err == nil || ev.OrderID == 0 {
			return order, err
		}
	}
	if ev.OrderID == 0 {
		return nil, apperrors.ErrNotFound
	}
	return s.store.Orders().FindByID(ctx, ev.OrderID)
}

// markPaid moves a pending order to paid. A repeated event leaves the order
// untouched.
func (s *service) markPaid(ctx context.Context, order *models.Order, paymentIntentID string) error {
	if order.PaymentStatus != models.PaymentPending {
		if order.PaymentStatus != models.PaymentPaid {
			log.Printf("⚠️ Ignoring completed checkout for order %d in status %s", order.ID, order.PaymentStatus)
		}
		return nil
	}

	now := time.Now()
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		order.PaymentStatus = models.PaymentPaid
		order.PaymentIntentID = paymentIntentID
		order.PaidAt = &now
		if err := tx.Orders().UpdatePayment(ctx, order, models.PaymentPending); err != nil {
			return err
		}
		return s.notifySale(ctx, tx, order)
	})
	if errors.Is(err, apperrors.ErrConcurrentUpdate) {
		// Another delivery of the same event won the race.
		fresh, ferr := s.store.Orders().FindByID(ctx, order.ID)
		if ferr != nil {
			return ferr
		}
		*order = *fresh
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark order %d paid: %w", order.ID, err)
	}
	log.Printf("✅ Order %d paid", order.ID)
	return nil
}

func (s *service) markFailed(ctx context.Context, order *models.Order) error {
	if order.PaymentStatus != models.PaymentPending {
		return nil
	}
	order.PaymentStatus = models.PaymentFailed
	err := s.store.Orders().UpdatePayment(ctx, order, models.PaymentPending)
	if err != nil && !errors.Is(err, apperrors.ErrConcurrentUpdate) {
		return fmt.Errorf("mark order %d failed: %w", order.ID, err)
	}
	return nil
}

func (s *service) notifySale(ctx context.Context, tx repositories.Store, order *models.Order) error {
	ids := []uint{order.BuyerID}
	for _, sel := range order.Sellers {
		ids = append(ids, sel.SellerID)
	}
	users, err := tx.Users().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	emails := make(map[uint]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	msgs := []notification.Message{{
		To:        emails[order.BuyerID],
		Subject:   fmt.Sprintf("Order #%d confirmed", order.ID),
		Body:      fmt.Sprintf("We received your payment of %s.", formatCents(order.OrderTotalCents, order.Currency)),
		EventType: notification.EventOrderPaid,
	}}
	for _, sel := range order.Sellers {
		msgs = append(msgs, notification.Message{
			To:        emails[sel.SellerID],
			Subject:   fmt.Sprintf("New sale on order #%d", order.ID),
			Body:      fmt.Sprintf("Your payout for this order is %s.", formatCents(sel.SellerPayoutCents, order.Currency)),
			EventType: notification.EventOrderSold,
		})
	}
	return enqueueAll(ctx, tx, msgs)
}

func (s *service) ReleasePayouts(ctx context.Context, orderID uint) (*PayoutResult, error) {
	order, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != models.PaymentPaid {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderNotPaid, order.ID, order.PaymentStatus)
	}

	ids := make([]uint, 0, len(order.Sellers))
	for _, sel := range order.Sellers {
		ids = append(ids, sel.SellerID)
	}
	users, err := s.store.Users().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load sellers: %w", err)
	}
	accounts := make(map[uint]string, len(users))
	for _, u := range users {
		accounts[u.ID] = u.StripeAccountID
	}

	res := &PayoutResult{}
	for i := range order.Sellers {
		sel := &order.Sellers[i]
		if sel.TransferStatus == models.TransferPaid {
			continue
		}

		switch {
		case sel.SellerPayoutCents <= 0:
			sel.TransferStatus = models.TransferSkipped
			sel.TransferError = "nothing to pay out"
			res.Skipped++
		case accounts[sel.SellerID] == "":
			sel.TransferStatus = models.TransferSkipped
			sel.TransferError = "seller has no connected payout account"
			res.Skipped++
		default:
			transferID, err := s.gateway.CreateTransfer(ctx, payment.TransferRequest{
				AmountCents:    sel.SellerPayoutCents,
				Currency:       order.Currency,
				Destination:    accounts[sel.SellerID],
				TransferGroup:  payment.TransferGroup(order.ID),
				IdempotencyKey: fmt.Sprintf("order-%d-seller-%d", order.ID, sel.SellerID),
			})
			if err != nil {
				log.Printf("⚠️ Payout to seller %d for order %d failed: %v", sel.SellerID, order.ID, err)
				sel.TransferStatus = models.TransferFailed
				sel.TransferError = err.Error()
				res.Failed++
			} else {
				sel.TransferID = transferID
				sel.TransferStatus = models.TransferPaid
				sel.TransferError = ""
				res.Released++
			}
		}

		if err := s.store.Orders().UpdateSellerTransfer(ctx, sel); err != nil {
			log.Printf("⚠️ Failed to record payout for seller %d on order %d: %v", sel.SellerID, order.ID, err)
		}
	}
	return res, nil
}

func (s *service) GetOrder(ctx context.Context, actor models.Actor, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || order.BuyerID == actor.UserID {
		return order, nil
	}
	for _, sel := range order.Sellers {
		if sel.SellerID == actor.UserID {
			return order, nil
		}
	}
	return nil, apperrors.ErrForbidden
}

func enqueueAll(ctx context.Context, tx repositories.Store, msgs []notification.Message) error {
	for _, m := range msgs {
		err := notification.Enqueue(ctx, tx.Outbox(), m)
		if err != nil && !errors.Is(err, notification.ErrNoRecipient) {
			return err
		}
	}
	return nil
}

func formatCents(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}
