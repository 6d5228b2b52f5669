package models

import (
	"time"

	"github.com/lib/pq"
)

// DMCA complaint statuses
const (
	ComplaintPending        = "PENDING"
	ComplaintValid          = "VALID"
	ComplaintInvalid        = "INVALID"
	ComplaintCounterNoticed = "COUNTER_NOTICED"
	ComplaintResolved       = "RESOLVED"
)

// Counter-notice statuses
const (
	CounterNoticePending  = "PENDING"
	CounterNoticeApproved = "APPROVED"
	CounterNoticeRejected = "REJECTED"
)

type DMCAComplaint struct {
	ID                 uint  `gorm:"primarykey"`
	ListingID          uint  `gorm:"index;not null"`
	SellerID           uint  `gorm:"index;not null"`
	ComplainantID      *uint `gorm:"index"`
	ComplainantName    string `gorm:"not null"`
	ComplainantEmail   string `gorm:"not null"`
	CopyrightedWork    string `gorm:"type:text;not null"`
	Description        string `gorm:"type:text;not null"`
	InfringingURL      string
	GoodFaithStatement bool
	Signature          string         `gorm:"not null"`
	Status             string         `gorm:"index;default:'PENDING'"`
	AutoFlagged        bool           `gorm:"default:false"`
	MatchedTerms       pq.StringArray `gorm:"type:text[]"`
	AdminNotes         string         `gorm:"type:text"`
	ResolvedBy         *uint
	ResolvedAt         *time.Time
	Version            int64          `gorm:"not null;default:1"`
	CounterNotice      *CounterNotice `gorm:"foreignKey:ComplaintID"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type CounterNotice struct {
	ID                    uint   `gorm:"primarykey"`
	ComplaintID           uint   `gorm:"uniqueIndex;not null"`
	ListingID             uint   `gorm:"index;not null"`
	SellerID              uint   `gorm:"index;not null"`
	Statement             string `gorm:"type:text;not null"`
	Signature             string `gorm:"not null"`
	ConsentToJurisdiction bool
	Status                string `gorm:"default:'PENDING'"`
	AdminNotes            string `gorm:"type:text"`
	ReviewedBy            *uint
	ReviewedAt            *time.Time
	Version               int64 `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
