package copyright

import (
	"context"
	"strings"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// ListingInput is what a seller supplies for a new listing.
type ListingInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"price_cents"`
	ShippingCents int64  `json:"shipping_cents"`
	GiftWrapCents int64  `json:"gift_wrap_cents"`
}

// maxListingCents keeps any single listing amount far below int64 overflow at
// checkout quantities.
const maxListingCents = 10_000_000_000

func (in ListingInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return missing("title")
	}
	for _, c := range []int64{in.PriceCents, in.ShippingCents, in.GiftWrapCents} {
		if c < 0 || c > maxListingCents {
			return ErrInvalidAmount
		}
	}
	return nil
}

// CreateListing publishes an active CLEAR listing for the acting seller and
// screens it straight away, so a listing with blocking terms never stays
// purchasable.
func (s *Service) CreateListing(ctx context.Context, actor models.Actor, in ListingInput) (*ScanResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		SellerID:        actor.UserID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		PriceCents:      in.PriceCents,
		ShippingCents:   in.ShippingCents,
		GiftWrapCents:   in.GiftWrapCents,
		IsActive:        true,
		CopyrightStatus: models.CopyrightClear,
	}
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		seller, err := tx.Users().FindByID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if seller.IsSuspended() {
			return ErrSellerSuspended
		}
		return tx.Listings().Create(ctx, listing)
	})
	if err != nil {
		return nil, err
	}
	return s.ScanListing(ctx, actor, listing.ID)
}
