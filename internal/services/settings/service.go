package settings

import (
	"context"
	"fmt"
	"log"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services/fees"

	"github.com/shopspring/decimal"
)

var ErrInvalidTaxRate = apperrors.Validation("INVALID_TAX_RATE", "tax rates must be between 0 and 1")

// Cache is the subset of the Redis cache used for fee settings.
type Cache interface {
	GetFeeSettings(ctx context.Context) (*models.FeeSettings, error)
	CacheFeeSettings(ctx context.Context, settings *models.FeeSettings) error
	InvalidateFeeSettings(ctx context.Context) error
}

// UpdateInput carries an admin settings change. Nil fields are left as they are.
type UpdateInput struct {
	PlatformFeeRate *decimal.Decimal `json:"platform_fee_rate"`
	AdFeeRate       *decimal.Decimal `json:"ad_fee_rate"`
	ProcessingRates models.RateTable `json:"processing_rates"`
	TaxRates        models.RateTable `json:"tax_rates"`
}

type Service interface {
	FeeSettings(ctx context.Context) (*models.FeeSettings, error)
	UpdateFeeSettings(ctx context.Context, adminID uint, in UpdateInput) (*models.FeeSettings, error)
	// Calculator returns a fee calculator built from the current settings.
	Calculator(ctx context.Context) (*fees.Calculator, *models.FeeSettings, error)
}

type service struct {
	store repositories.Store
	cache Cache
}

// NewService creates the settings service. cache may be nil.
func NewService(store repositories.Store, cache Cache) Service {
	return &service{store: store, cache: cache}
}

func (s *service) FeeSettings(ctx context.Context) (*models.FeeSettings, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFeeSettings(ctx)
		if err != nil {
			log.Printf("⚠️ Fee settings cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	settings, err := s.store.Settings().GetFeeSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fee settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheFeeSettings(ctx, settings); err != nil {
			log.Printf("⚠️ Failed to cache fee settings: %v", err)
		}
	}
	return settings, nil
}

func (s *service) UpdateFeeSettings(ctx context.Context, adminID uint, in UpdateInput) (*models.FeeSettings, error) {
	current, err := s.store.Settings().GetFeeSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fee settings: %w", err)
	}

	next := *current
	if in.PlatformFeeRate != nil {
		next.PlatformFeeRate = *in.PlatformFeeRate
	}
	if in.AdFeeRate != nil {
		next.AdFeeRate = *in.AdFeeRate
	}
	if in.ProcessingRates != nil {
		next.ProcessingRates = normalizeTable(in.ProcessingRates)
	}
	if in.TaxRates != nil {
		next.TaxRates = normalizeTable(in.TaxRates)
	}
	next.UpdatedBy = adminID

	// Reject configurations that could produce a negative payout.
	if err := fees.RatesFromSettings(next).Validate(); err != nil {
		return nil, apperrors.Validation(apperrors.CodeOf(err), err.Error())
	}
	for country, rate := range next.TaxRates {
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: %s=%s", ErrInvalidTaxRate, country, rate)
		}
	}

	if err := s.store.Settings().SaveFeeSettings(ctx, &next); err != nil {
		return nil, fmt.Errorf("save fee settings: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateFeeSettings(ctx); err != nil {
			log.Printf("⚠️ Failed to invalidate fee settings cache: %v", err)
		}
	}
	log.Printf("✅ Fee settings updated by admin %d", adminID)
	return &next, nil
}

func (s *service) Calculator(ctx context.Context) (*fees.Calculator, *models.FeeSettings, error) {
	settings, err := s.FeeSettings(ctx)
	if err != nil {
		return nil, nil, err
	}
	calc, err := fees.NewCalculator(fees.RatesFromSettings(*settings))
	if err != nil {
		return nil, nil, err
	}
	return calc, settings, nil
}

func normalizeTable(t models.RateTable) models.RateTable {
	out := make(models.RateTable, len(t))
	for k, v := range t {
		out[fees.NormalizeCountry(k)] = v
	}
	return out
}
