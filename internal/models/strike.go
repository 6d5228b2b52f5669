package models

import "time"

// Seller strike statuses
const (
	StrikeActive     = "ACTIVE"
	StrikeAppealed   = "APPEALED"
	StrikeOverturned = "OVERTURNED"
	StrikeUpheld     = "UPHELD"
)

type SellerStrike struct {
	ID           uint   `gorm:"primarykey"`
	SellerID     uint   `gorm:"index;not null"`
	Reason       string `gorm:"type:text;not null"`
	ComplaintID  *uint  `gorm:"index"`
	ReportID     *uint
	Status       string `gorm:"index;default:'ACTIVE'"`
	AppealReason string `gorm:"type:text"`
	IssuedBy     uint
	ReviewedBy   *uint
	ReviewedAt   *time.Time
	Version      int64 `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Counts reports whether the strike counts against the seller.
func (s *SellerStrike) Counts() bool {
	return s.Status == StrikeActive || s.Status == StrikeAppealed || s.Status == StrikeUpheld
}
