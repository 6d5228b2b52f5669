package repositories

import (
	"context"
	"time"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	FindByID(ctx context.Context, id uint) (*models.Listing, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Listing, error)
	// Update writes the moderation fields if the stored version still matches
	// listing.Version, then bumps the version.
	Update(ctx context.Context, listing *models.Listing) error
	// DeactivateBySeller disables every active listing of a seller in one statement.
	DeactivateBySeller(ctx context.Context, sellerID uint, reason string) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if listing.CopyrightStatus == "" {
		listing.CopyrightStatus = models.CopyrightClear
	}
	listing.Version = 1
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, notFound(err, "listing", id)
	}
	return &listing, nil
}

func (r *listingRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error
	return listings, err
}

func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	if err := listing.CheckVisibility(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ? AND version = ?", listing.ID, listing.Version).
		Updates(map[string]interface{}{
			"copyright_status": listing.CopyrightStatus,
			"is_active":        listing.IsActive,
			"flagged_words":    listing.FlaggedWords,
			"flagged_reason":   listing.FlaggedReason,
			"version":          listing.Version + 1,
			"updated_at":       time.Now(),
		})
	if err := checkSwapped(res, "listing", listing.ID); err != nil {
		return err
	}
	listing.Version++
	return nil
}

func (r *listingRepository) DeactivateBySeller(ctx context.Context, sellerID uint, reason string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("seller_id = ? AND is_active = ?", sellerID, true).
		Updates(map[string]interface{}{
			"is_active":        false,
			"copyright_status": models.CopyrightDisabled,
			"flagged_reason":   reason,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       time.Now(),
		})
	return res.RowsAffected, res.Error
}
