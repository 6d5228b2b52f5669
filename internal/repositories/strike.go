package repositories

import (
	"context"
	"time"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

type StrikeRepository interface {
	Create(ctx context.Context, strike *models.SellerStrike) error
	FindByID(ctx context.Context, id uint) (*models.SellerStrike, error)
	FindBySellerID(ctx context.Context, sellerID uint) ([]models.SellerStrike, error)
	// CountActive counts strikes that still weigh against the seller.
	CountActive(ctx context.Context, sellerID uint) (int64, error)
	Update(ctx context.Context, strike *models.SellerStrike) error
}

type strikeRepository struct {
	db *gorm.DB
}

func (r *strikeRepository) Create(ctx context.Context, strike *models.SellerStrike) error {
	if strike.Status == "" {
		strike.Status = models.StrikeActive
	}
	strike.Version = 1
	return r.db.WithContext(ctx).Create(strike).Error
}

func (r *strikeRepository) FindByID(ctx context.Context, id uint) (*models.SellerStrike, error) {
	var strike models.SellerStrike
	if err := r.db.WithContext(ctx).First(&strike, id).Error; err != nil {
		return nil, notFound(err, "strike", id)
	}
	return &strike, nil
}

func (r *strikeRepository) FindBySellerID(ctx context.Context, sellerID uint) ([]models.SellerStrike, error) {
	var strikes []models.SellerStrike
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&strikes).Error
	return strikes, err
}

func (r *strikeRepository) CountActive(ctx context.Context, sellerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SellerStrike{}).
		Where("seller_id = ? AND status IN ?", sellerID,
			[]string{models.StrikeActive, models.StrikeAppealed, models.StrikeUpheld}).
		Count(&count).Error
	return count, err
}

func (r *strikeRepository) Update(ctx context.Context, strike *models.SellerStrike) error {
	res := r.db.WithContext(ctx).Model(&models.SellerStrike{}).
		Where("id = ? AND version = ?", strike.ID, strike.Version).
		Updates(map[string]interface{}{
			"status":        strike.Status,
			"appeal_reason": strike.AppealReason,
			"reviewed_by":   strike.ReviewedBy,
			"reviewed_at":   strike.ReviewedAt,
			"version":       strike.Version + 1,
			"updated_at":    time.Now(),
		})
	if err := checkSwapped(res, "strike", strike.ID); err != nil {
		return err
	}
	strike.Version++
	return nil
}
