package checkout

import (
	"context"
	"fmt"
	"log"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services/notification"
	"marketplace/internal/services/payment"
)

func (s *service) RequestRefund(ctx context.Context, buyerID, orderID uint, refundType string) (*models.Order, error) {
	if refundType != models.RefundTypeCredit && refundType != models.RefundTypeCash {
		return nil, ErrInvalidRefundType
	}

	order, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, ErrNotOrderOwner
	}
	if order.PaymentStatus != models.PaymentPaid {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderNotPaid, order.ID, order.PaymentStatus)
	}
	if order.RefundStatus != models.RefundNone {
		return nil, ErrRefundExists
	}

	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		order.RefundStatus = models.RefundRequested
		order.RefundType = refundType
		if err := tx.Orders().UpdateRefund(ctx, order, models.RefundNone); err != nil {
			return err
		}
		return enqueueAll(ctx, tx, []notification.Message{{
			To:        s.cfg.AdminEmail,
			Subject:   fmt.Sprintf("Refund requested for order #%d", order.ID),
			Body:      fmt.Sprintf("Buyer %d requested a %s refund of %s.", buyerID, refundType, formatCents(order.OrderTotalCents, order.Currency)),
			EventType: notification.EventRefundRequested,
		}})
	})
	if err != nil {
		return nil, fmt.Errorf("request refund for order %d: %w", order.ID, err)
	}
	return order, nil
}

// ProcessRefund settles a requested refund. The order is claimed as
// PROCESSING first so a second admin cannot refund it twice. If the Stripe
// call fails the claim is released again.
func (s *service) ProcessRefund(ctx context.Context, adminID, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// A CASH refund left in PROCESSING was accepted by Stripe but never
	// recorded; retrying reuses the idempotency key so the card is not
	// refunded twice.
	resuming := order.RefundStatus == models.RefundProcessing && order.RefundType == models.RefundTypeCash
	if order.RefundStatus != models.RefundRequested && !resuming {
		return nil, fmt.Errorf("%w: order %d refund is %s", ErrRefundNotRequested, order.ID, order.RefundStatus)
	}
	if order.RefundType == models.RefundTypeCash && order.PaymentIntentID == "" {
		return nil, ErrMissingPayment
	}

	if !resuming {
		order.RefundStatus = models.RefundProcessing
		if err := s.store.Orders().UpdateRefund(ctx, order, models.RefundRequested); err != nil {
			return nil, err
		}
	}

	reference := "store-credit"
	if order.RefundType == models.RefundTypeCash {
		reference, err = s.gateway.CreateRefund(ctx, payment.RefundRequest{
			PaymentIntentID: order.PaymentIntentID,
			AmountCents:     order.OrderTotalCents,
			IdempotencyKey:  fmt.Sprintf("order-%d-refund", order.ID),
		})
		if err != nil {
			s.releaseRefundClaim(ctx, order)
			return nil, err
		}
	}

	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if order.RefundType == models.RefundTypeCredit {
			if err := tx.Users().AddStoreCredit(ctx, order.BuyerID, order.OrderTotalCents); err != nil {
				return err
			}
		}
		order.RefundStatus = models.RefundCompleted
		order.RefundReference = reference
		order.PaymentStatus = models.PaymentRefunded
		if err := tx.Orders().UpdateRefund(ctx, order, models.RefundProcessing); err != nil {
			return err
		}

		buyer, err := tx.Users().FindByID(ctx, order.BuyerID)
		if err != nil {
			return err
		}
		return enqueueAll(ctx, tx, []notification.Message{{
			To:        buyer.Email,
			Subject:   fmt.Sprintf("Refund for order #%d processed", order.ID),
			Body:      fmt.Sprintf("%s was refunded as %s.", formatCents(order.OrderTotalCents, order.Currency), refundLabel(order.RefundType)),
			EventType: notification.EventRefundProcessed,
		}})
	})
	if err != nil {
		if order.RefundType == models.RefundTypeCredit {
			s.releaseRefundClaim(ctx, order)
		}
		return nil, fmt.Errorf("complete refund for order %d: %w", order.ID, err)
	}

	log.Printf("✅ Refund for order %d processed by admin %d (%s)", order.ID, adminID, order.RefundType)
	return order, nil
}

func (s *service) releaseRefundClaim(ctx context.Context, order *models.Order) {
	order.RefundStatus = models.RefundRequested
	order.PaymentStatus = models.PaymentPaid
	order.RefundReference = ""
	if err := s.store.Orders().UpdateRefund(ctx, order, models.RefundProcessing); err != nil {
		log.Printf("⚠️ Failed to release refund claim on order %d: %v", order.ID, err)
	}
}

func refundLabel(refundType string) string {
	if refundType == models.RefundTypeCredit {
		return "store credit"
	}
	return "a card refund"
}
