package repositories

import (
	"context"
	"time"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// GetFeeSettings returns the single settings row, creating it with the
	// defaults on first read.
	GetFeeSettings(ctx context.Context) (*models.FeeSettings, error)
	SaveFeeSettings(ctx context.Context, settings *models.FeeSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func (r *settingsRepository) GetFeeSettings(ctx context.Context) (*models.FeeSettings, error) {
	settings := models.DefaultFeeSettings()
	err := r.db.WithContext(ctx).
		Where(models.FeeSettings{ID: 1}).
		Attrs(settings).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) SaveFeeSettings(ctx context.Context, settings *models.FeeSettings) error {
	settings.ID = 1
	settings.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(settings).Error
}
