package repositories

import (
	"context"
	"fmt"
	"time"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create inserts the order with its items and seller rows.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByCheckoutSession(ctx context.Context, sessionID string) (*models.Order, error)
	SetCheckoutSession(ctx context.Context, id uint, sessionID string) error
	// UpdatePayment moves the payment status only if it still equals from.
	UpdatePayment(ctx context.Context, order *models.Order, from string) error
	// UpdateRefund moves the refund status only if it still equals from.
	UpdateRefund(ctx context.Context, order *models.Order, from string) error
	UpdateSellerTransfer(ctx context.Context, seller *models.OrderSeller) error
}

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Sellers").
		First(&order, id).Error
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return &order, nil
}

func (r *orderRepository) FindByCheckoutSession(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Sellers").
		Where("checkout_session_id = ?", sessionID).
		First(&order).Error
	if err != nil {
		return nil, notFound(err, "order for session", sessionID)
	}
	return &order, nil
}

func (r *orderRepository) SetCheckoutSession(ctx context.Context, id uint, sessionID string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("checkout_session_id", sessionID).Error
}

func (r *orderRepository) UpdatePayment(ctx context.Context, order *models.Order, from string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", order.ID, from).
		Updates(map[string]interface{}{
			"payment_status":    order.PaymentStatus,
			"payment_intent_id": order.PaymentIntentID,
			"paid_at":           order.PaidAt,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d is no longer %s: %w", order.ID, from, apperrors.ErrConcurrentUpdate)
	}
	return nil
}

func (r *orderRepository) UpdateRefund(ctx context.Context, order *models.Order, from string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND refund_status = ?", order.ID, from).
		Updates(map[string]interface{}{
			"refund_status":    order.RefundStatus,
			"refund_type":      order.RefundType,
			"refund_reference": order.RefundReference,
			"payment_status":   order.PaymentStatus,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d refund is no longer %s: %w", order.ID, from, apperrors.ErrConcurrentUpdate)
	}
	return nil
}

func (r *orderRepository) UpdateSellerTransfer(ctx context.Context, seller *models.OrderSeller) error {
	return r.db.WithContext(ctx).Model(&models.OrderSeller{}).
		Where("id = ?", seller.ID).
		Updates(map[string]interface{}{
			"transfer_id":     seller.TransferID,
			"transfer_status": seller.TransferStatus,
			"transfer_error":  seller.TransferError,
			"updated_at":      time.Now(),
		}).Error
}
