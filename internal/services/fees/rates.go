package fees

import (
	"fmt"
	"strings"

	"marketplace/internal/models"

	"github.com/shopspring/decimal"
)

// Rates is the fee configuration applied to an order subtotal.
type Rates struct {
	Platform   decimal.Decimal
	Ad         decimal.Decimal
	Processing models.RateTable // must contain DEFAULT
}

// DefaultRates mirrors models.DefaultFeeSettings.
func DefaultRates() Rates {
	return RatesFromSettings(models.DefaultFeeSettings())
}

// RatesFromSettings builds Rates from the persisted admin settings.
func RatesFromSettings(s models.FeeSettings) Rates {
	return Rates{
		Platform:   s.PlatformFeeRate,
		Ad:         s.AdFeeRate,
		Processing: s.ProcessingRates.Clone(),
	}
}

var one = decimal.NewFromInt(1)

// Validate checks every rate is in [0, 1) and that the worst-case rate sum
// stays below 100%, which guarantees a non-negative payout.
func (r Rates) Validate() error {
	if _, ok := r.Processing[models.DefaultProcessingRule]; !ok {
		return fmt.Errorf("%w: missing %s processing rate", ErrInvalidRates, models.DefaultProcessingRule)
	}
	check := func(name string, rate decimal.Decimal) error {
		if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
			return fmt.Errorf("%w: %s rate %s out of range", ErrInvalidRates, name, rate)
		}
		return nil
	}
	if err := check("platform", r.Platform); err != nil {
		return err
	}
	if err := check("ad", r.Ad); err != nil {
		return err
	}
	maxProcessing := decimal.Zero
	for bucket, rate := range r.Processing {
		if err := check("processing "+bucket, rate); err != nil {
			return err
		}
		if rate.GreaterThan(maxProcessing) {
			maxProcessing = rate
		}
	}
	if r.Platform.Add(r.Ad).Add(maxProcessing).GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: combined rates reach 100%%", ErrInvalidRates)
	}
	return nil
}

// processingFor picks the processing bucket for a country.
func (r Rates) processingFor(country string) (string, decimal.Decimal) {
	code := NormalizeCountry(country)
	if code != models.DefaultProcessingRule {
		if rate, ok := r.Processing[code]; ok {
			return code, rate
		}
	}
	return models.DefaultProcessingRule, r.Processing[models.DefaultProcessingRule]
}

// NormalizeCountry upper-cases a country code; empty means DEFAULT.
func NormalizeCountry(country string) string {
	code := strings.ToUpper(strings.TrimSpace(country))
	if code == "" {
		return models.DefaultProcessingRule
	}
	return code
}

// applyRate returns round-half-up(cents × rate).
func applyRate(cents int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(rate).Round(0).IntPart()
}

// TaxCents applies the tax rate for country (falling back to DEFAULT, then
// zero) to base.
func TaxCents(base int64, taxRates models.RateTable, country string) int64 {
	rate, ok := taxRates[NormalizeCountry(country)]
	if !ok {
		rate, ok = taxRates[models.DefaultProcessingRule]
	}
	if !ok {
		return 0
	}
	return applyRate(base, rate)
}
