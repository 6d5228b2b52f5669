package repositories

import (
	"context"
	"strings"
	"time"

	"marketplace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BannedWordRepository interface {
	List(ctx context.Context) ([]models.BannedWord, error)
	// Version returns the current list version, 0 if the list was never written.
	Version(ctx context.Context) (int64, error)
	Upsert(ctx context.Context, word *models.BannedWord) (int64, error)
	Delete(ctx context.Context, term string) (int64, error)
	// Seed inserts the given words only when the table is empty.
	Seed(ctx context.Context, words []models.BannedWord) (int, error)
}

type bannedWordRepository struct {
	db *gorm.DB
}

func (r *bannedWordRepository) List(ctx context.Context) ([]models.BannedWord, error) {
	var words []models.BannedWord
	err := r.db.WithContext(ctx).Order("term ASC").Find(&words).Error
	return words, err
}

func (r *bannedWordRepository) Version(ctx context.Context) (int64, error) {
	var v models.BannedWordListVersion
	err := r.db.WithContext(ctx).Order("id ASC").Limit(1).Find(&v).Error
	return v.Version, err
}

func (r *bannedWordRepository) Upsert(ctx context.Context, word *models.BannedWord) (int64, error) {
	word.Term = strings.ToLower(strings.TrimSpace(word.Term))
	var version int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "term"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "severity", "updated_at"}),
		}).Create(word).Error; err != nil {
			return err
		}
		var err error
		version, err = bumpVersion(tx)
		return err
	})
	return version, err
}

func (r *bannedWordRepository) Delete(ctx context.Context, term string) (int64, error) {
	var version int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("term = ?", strings.ToLower(strings.TrimSpace(term))).Delete(&models.BannedWord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "banned word", term)
		}
		var err error
		version, err = bumpVersion(tx)
		return err
	})
	return version, err
}

func (r *bannedWordRepository) Seed(ctx context.Context, words []models.BannedWord) (int, error) {
	var inserted int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.BannedWord{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 || len(words) == 0 {
			return nil
		}
		for i := range words {
			words[i].Term = strings.ToLower(strings.TrimSpace(words[i].Term))
		}
		if err := tx.CreateInBatches(words, 100).Error; err != nil {
			return err
		}
		inserted = len(words)
		_, err := bumpVersion(tx)
		return err
	})
	return inserted, err
}

// bumpVersion increments the single list-version row, creating it on first use.
func bumpVersion(tx *gorm.DB) (int64, error) {
	var v models.BannedWordListVersion
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").Limit(1).Find(&v).Error
	if err != nil {
		return 0, err
	}
	v.UpdatedAt = time.Now()
	if v.ID == 0 {
		v.Version = 1
		return v.Version, tx.Create(&v).Error
	}
	v.Version++
	return v.Version, tx.Save(&v).Error
}
