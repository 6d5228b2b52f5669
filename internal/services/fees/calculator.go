// Package fees computes order fee breakdowns and seller payouts.
//
// All amounts are integer minor units (cents). Each fee line is rounded
// half-up on its own, so FeesTotalCents can differ by a cent from rounding the
// combined rate, but SellerPayoutCents + FeesTotalCents always equals
// OrderSubtotalCents exactly.
package fees

import "fmt"

// Input is one seller's (or a single-seller order's) monetary inputs.
type Input struct {
	ItemsSubtotalCents int64  `json:"items_subtotal_cents"`
	ShippingCents      int64  `json:"shipping_cents"`
	GiftWrapCents      int64  `json:"gift_wrap_cents"`
	TaxCents           int64  `json:"tax_cents"`
	Country            string `json:"country"`
	AdsEnabled         bool   `json:"ads_enabled"`
}

// Breakdown is the auditable result of a fee calculation.
type Breakdown struct {
	ItemsSubtotalCents int64  `json:"items_subtotal_cents"`
	ShippingCents      int64  `json:"shipping_cents"`
	GiftWrapCents      int64  `json:"gift_wrap_cents"`
	TaxCents           int64  `json:"tax_cents"`
	OrderSubtotalCents int64  `json:"order_subtotal_cents"`
	PlatformFeeCents   int64  `json:"platform_fee_cents"`
	ProcessingFeeCents int64  `json:"processing_fee_cents"`
	AdFeeCents         int64  `json:"ad_fee_cents"`
	FeesTotalCents     int64  `json:"fees_total_cents"`
	SellerPayoutCents  int64  `json:"seller_payout_cents"`
	OrderTotalCents    int64  `json:"order_total_cents"`
	ProcessingRule     string `json:"processing_rule"`
	AdsEnabled         bool   `json:"ads_enabled"`
}

type Calculator struct {
	rates Rates
}

// NewCalculator validates the rates up front so Calculate can only fail on
// bad input.
func NewCalculator(rates Rates) (*Calculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rates: rates}, nil
}

func (c *Calculator) Rates() Rates {
	return c.rates
}

// Calculate is pure: identical inputs always give identical breakdowns.
func (c *Calculator) Calculate(in Input) (Breakdown, error) {
	if in.ItemsSubtotalCents < 0 || in.ShippingCents < 0 || in.GiftWrapCents < 0 || in.TaxCents < 0 {
		return Breakdown{}, ErrNegativeAmount
	}

	subtotal, ok := AddCents(in.ItemsSubtotalCents, in.ShippingCents)
	if ok {
		subtotal, ok = AddCents(subtotal, in.GiftWrapCents)
	}
	if ok {
		_, ok = AddCents(subtotal, in.TaxCents)
	}
	if !ok {
		return Breakdown{}, fmt.Errorf("%w: order amount is too large", ErrInvalidItem)
	}
	rule, processingRate := c.rates.processingFor(in.Country)

	b := Breakdown{
		ItemsSubtotalCents: in.ItemsSubtotalCents,
		ShippingCents:      in.ShippingCents,
		GiftWrapCents:      in.GiftWrapCents,
		TaxCents:           in.TaxCents,
		OrderSubtotalCents: subtotal,
		PlatformFeeCents:   applyRate(subtotal, c.rates.Platform),
		ProcessingFeeCents: applyRate(subtotal, processingRate),
		ProcessingRule:     rule,
		AdsEnabled:         in.AdsEnabled,
	}
	if in.AdsEnabled {
		b.AdFeeCents = applyRate(subtotal, c.rates.Ad)
	}
	b.FeesTotalCents = b.PlatformFeeCents + b.ProcessingFeeCents + b.AdFeeCents
	b.SellerPayoutCents = subtotal - b.FeesTotalCents
	if b.SellerPayoutCents < 0 {
		return Breakdown{}, fmt.Errorf("%w: subtotal %d, fees %d", ErrNegativePayout, subtotal, b.FeesTotalCents)
	}
	b.OrderTotalCents = subtotal + in.TaxCents
	return b, nil
}

// add accumulates another breakdown's amounts into b.
func (b *Breakdown) add(o Breakdown) {
	b.ItemsSubtotalCents += o.ItemsSubtotalCents
	b.ShippingCents += o.ShippingCents
	b.GiftWrapCents += o.GiftWrapCents
	b.TaxCents += o.TaxCents
	b.OrderSubtotalCents += o.OrderSubtotalCents
	b.PlatformFeeCents += o.PlatformFeeCents
	b.ProcessingFeeCents += o.ProcessingFeeCents
	b.AdFeeCents += o.AdFeeCents
	b.FeesTotalCents += o.FeesTotalCents
	b.SellerPayoutCents += o.SellerPayoutCents
	b.OrderTotalCents += o.OrderTotalCents
	b.AdsEnabled = b.AdsEnabled || o.AdsEnabled
}
