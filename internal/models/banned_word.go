package models

import "time"

// Banned-word severities
const (
	SeverityWarning  = "WARNING"
	SeverityAutoFlag = "AUTO_FLAG"
	SeverityAutoHide = "AUTO_HIDE"
)

// Banned-word categories
const (
	CategoryBrand     = "BRAND"
	CategoryCelebrity = "CELEBRITY"
	CategoryFranchise = "FRANCHISE"
	CategoryOther     = "OTHER"
)

type BannedWord struct {
	ID        uint   `gorm:"primarykey" json:"id" yaml:"-"`
	Term      string `gorm:"uniqueIndex;not null" json:"term" yaml:"term"`
	Category  string `gorm:"not null" json:"category" yaml:"category"`
	Severity  string `gorm:"not null" json:"severity" yaml:"severity"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// BannedWordListVersion is a single-row counter bumped on every list change.
type BannedWordListVersion struct {
	ID        uint  `gorm:"primarykey"`
	Version   int64 `gorm:"not null;default:1"`
	UpdatedAt time.Time
}

func ValidSeverity(s string) bool {
	switch s {
	case SeverityWarning, SeverityAutoFlag, SeverityAutoHide:
		return true
	}
	return false
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryBrand, CategoryCelebrity, CategoryFranchise, CategoryOther:
		return true
	}
	return false
}
