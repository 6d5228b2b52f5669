package models

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Listing copyright statuses
const (
	CopyrightClear         = "CLEAR"
	CopyrightFlagged       = "FLAGGED"
	CopyrightHidden        = "HIDDEN"
	CopyrightDisabled      = "DISABLED"
	CopyrightDMCAComplaint = "DMCA_COMPLAINT"
)

var ErrActiveListingBlocked = errors.New("an active listing cannot be DISABLED or HIDDEN")

type Listing struct {
	ID              uint           `gorm:"primarykey"`
	SellerID        uint           `gorm:"index;not null"`
	Title           string         `gorm:"not null"`
	Description     string         `gorm:"type:text"`
	PriceCents      int64          `gorm:"not null"`
	ShippingCents   int64          `gorm:"default:0"`
	GiftWrapCents   int64          `gorm:"default:0"`
	IsActive        bool           `gorm:"not null"`
	CopyrightStatus string         `gorm:"index;default:'CLEAR'"`
	FlaggedWords    pq.StringArray `gorm:"type:text[]"`
	FlaggedReason   string
	Version         int64 `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Purchasable reports whether buyers can check out this listing.
func (l *Listing) Purchasable() bool {
	return l.IsActive && l.CopyrightStatus == CopyrightClear
}

// BeforeSave keeps buyer visibility consistent with the moderation status.
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	return l.CheckVisibility()
}

func (l *Listing) CheckVisibility() error {
	if l.IsActive && (l.CopyrightStatus == CopyrightDisabled || l.CopyrightStatus == CopyrightHidden) {
		return ErrActiveListingBlocked
	}
	return nil
}
