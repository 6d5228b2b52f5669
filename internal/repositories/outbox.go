package repositories

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg *models.NotificationOutbox) error
	// ClaimUnpublished leases up to limit pending rows to claimToken until
	// claimUntil. Rows locked by another worker are skipped.
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]models.NotificationOutbox, error)
	MarkPublished(ctx context.Context, id uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, id uuid.UUID, claimToken, errMsg string, at time.Time) error
}

type outboxRepository struct {
	db *gorm.DB
}

func (r *outboxRepository) Enqueue(ctx context.Context, msg *models.NotificationOutbox) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *outboxRepository) ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]models.NotificationOutbox, error) {
	if limit <= 0 {
		return nil, nil
	}
	if claimToken == "" {
		return nil, errors.New("claim token is required")
	}

	now := time.Now().UTC()
	var rows []models.NotificationOutbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subquery := tx.Model(&models.NotificationOutbox{}).
			Select("id").
			Where("published_at IS NULL").
			Where("dead_lettered_at IS NULL").
			Where("claim_until IS NULL OR claim_until < ?", now).
			Order("created_at ASC").
			Limit(limit).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})

		if err := tx.Model(&models.NotificationOutbox{}).
			Where("id IN (?)", subquery).
			Updates(map[string]interface{}{
				"claim_token": claimToken,
				"claim_until": claimUntil,
			}).Error; err != nil {
			return err
		}

		return tx.Where("claim_token = ?", claimToken).
			Where("published_at IS NULL").
			Where("dead_lettered_at IS NULL").
			Order("created_at ASC").
			Find(&rows).Error
	})
	return rows, err
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, claimToken string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.NotificationOutbox{}).
		Where("id = ? AND claim_token = ?", id, claimToken).
		Updates(map[string]interface{}{
			"published_at": at,
			"claim_token":  nil,
			"claim_until":  nil,
		}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, claimToken, errMsg string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.NotificationOutbox{}).
		Where("id = ? AND claim_token = ?", id, claimToken).
		Updates(map[string]interface{}{
			"retry_count":   gorm.Expr("retry_count + 1"),
			"last_error":    errMsg,
			"last_error_at": at,
			"claim_token":   nil,
			"claim_until":   nil,
		}).Error
}

func (r *outboxRepository) MarkDeadLettered(ctx context.Context, id uuid.UUID, claimToken, errMsg string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.NotificationOutbox{}).
		Where("id = ? AND claim_token = ?", id, claimToken).
		Updates(map[string]interface{}{
			"retry_count":      gorm.Expr("retry_count + 1"),
			"last_error":       errMsg,
			"last_error_at":    at,
			"dead_lettered_at": at,
			"claim_token":      nil,
			"claim_until":      nil,
		}).Error
}
