package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultProcessingRule is the processing bucket used when no country rate applies.
const DefaultProcessingRule = "DEFAULT"

// FeeSettings holds the admin-managed fee configuration. There is one row.
type FeeSettings struct {
	ID              uint            `gorm:"primarykey" json:"-"`
	PlatformFeeRate decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"platform_fee_rate"`
	AdFeeRate       decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"ad_fee_rate"`
	ProcessingRates RateTable       `gorm:"type:jsonb" json:"processing_rates"`
	TaxRates        RateTable       `gorm:"type:jsonb" json:"tax_rates"`
	UpdatedBy       uint            `json:"updated_by"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DefaultFeeSettings returns the out-of-the-box rates: 5% platform,
// 15% advertising and 2% processing.
func DefaultFeeSettings() FeeSettings {
	return FeeSettings{
		PlatformFeeRate: decimal.RequireFromString("0.05"),
		AdFeeRate:       decimal.RequireFromString("0.15"),
		ProcessingRates: RateTable{DefaultProcessingRule: decimal.RequireFromString("0.02")},
		TaxRates:        RateTable{},
	}
}
