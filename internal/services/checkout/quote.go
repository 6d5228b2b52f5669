package checkout

import (
	"context"
	"fmt"

	"marketplace/internal/models"
	"marketplace/internal/services/fees"
	"marketplace/internal/services/payment"
)

type CartItem struct {
	ListingID uint `json:"listing_id"`
	Quantity  int  `json:"quantity"`
	GiftWrap  bool `json:"gift_wrap"`
}

type QuoteRequest struct {
	Items   []CartItem `json:"items"`
	Country string     `json:"country"`
}

// QuoteItem is a priced cart line with its share of the order shipping.
type QuoteItem struct {
	ListingID      uint   `json:"listing_id"`
	SellerID       uint   `json:"seller_id"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	GiftWrapCents  int64  `json:"gift_wrap_cents"`
	ShippingCents  int64  `json:"shipping_cents"`
}

type Quote struct {
	Country  string             `json:"country"`
	Currency string             `json:"currency"`
	Items    []QuoteItem        `json:"items"`
	Order    fees.Breakdown     `json:"order"`
	Sellers  []fees.SellerShare `json:"sellers"`
}

// MaxQuantity caps a single cart line.
const MaxQuantity = 10000

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	ids := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 || it.Quantity > MaxQuantity {
			return nil, fmt.Errorf("%w: listing %d", ErrInvalidQuantity, it.ListingID)
		}
		ids = append(ids, it.ListingID)
	}

	found, err := s.store.Listings().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	listings := make(map[uint]models.Listing, len(found))
	var sellerIDs []uint
	for _, l := range found {
		listings[l.ID] = l
		sellerIDs = append(sellerIDs, l.SellerID)
	}

	sellers, err := s.store.Users().FindByIDs(ctx, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("load sellers: %w", err)
	}
	ads := make(map[uint]bool, len(sellers))
	suspended := make(map[uint]bool)
	for _, u := range sellers {
		ads[u.ID] = u.HasAdvertising
		suspended[u.ID] = u.IsSuspended()
	}

	in := fees.SplitInput{Country: req.Country, AdsBySeller: ads}
	items := make([]QuoteItem, 0, len(req.Items))
	var taxBase int64
	for _, it := range req.Items {
		l, ok := listings[it.ListingID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrListingNotFound, it.ListingID)
		}
		if !l.Purchasable() || suspended[l.SellerID] {
			return nil, fmt.Errorf("%w: %d", ErrListingUnavailable, l.ID)
		}
		line := QuoteItem{
			ListingID:      l.ID,
			SellerID:       l.SellerID,
			Title:          l.Title,
			UnitPriceCents: l.PriceCents,
			Quantity:       it.Quantity,
		}
		sub, ok := fees.MulCents(l.PriceCents, int64(it.Quantity))
		if it.GiftWrap && ok {
			line.GiftWrapCents, ok = fees.MulCents(l.GiftWrapCents, int64(it.Quantity))
		}
		for _, c := range []int64{sub, l.ShippingCents, line.GiftWrapCents} {
			if ok {
				taxBase, ok = fees.AddCents(taxBase, c)
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: listing %d", fees.ErrInvalidItem, l.ID)
		}
		in.Items = append(in.Items, fees.LineItem{
			SellerID:       l.SellerID,
			ListingID:      l.ID,
			UnitPriceCents: l.PriceCents,
			Quantity:       it.Quantity,
			GiftWrapCents:  line.GiftWrapCents,
		})
		in.ShippingCents += l.ShippingCents
		items = append(items, line)
	}

	calc, settings, err := s.settings.Calculator(ctx)
	if err != nil {
		return nil, err
	}
	in.TaxCents = fees.TaxCents(taxBase, settings.TaxRates, req.Country)

	split, err := calc.Split(in)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ShippingCents = split.ItemShippingCents[i]
	}

	return &Quote{
		Country:  fees.NormalizeCountry(req.Country),
		Currency: s.cfg.Currency,
		Items:    items,
		Order:    split.Order,
		Sellers:  split.Sellers,
	}, nil
}

// newOrder turns a quote into an unpaid order with its item and seller rows.
func newOrder(buyerID uint, q *Quote) *models.Order {
	b := q.Order
	order := &models.Order{
		BuyerID:            buyerID,
		Country:            q.Country,
		Currency:           q.Currency,
		ItemsSubtotalCents: b.ItemsSubtotalCents,
		ShippingCents:      b.ShippingCents,
		GiftWrapCents:      b.GiftWrapCents,
		TaxCents:           b.TaxCents,
		OrderSubtotalCents: b.OrderSubtotalCents,
		PlatformFeeCents:   b.PlatformFeeCents,
		ProcessingFeeCents: b.ProcessingFeeCents,
		AdFeeCents:         b.AdFeeCents,
		FeesTotalCents:     b.FeesTotalCents,
		SellerPayoutCents:  b.SellerPayoutCents,
		OrderTotalCents:    b.OrderTotalCents,
		ProcessingRule:     b.ProcessingRule,
		AdsEnabledAtSale:   b.AdsEnabled,
		PaymentStatus:      models.PaymentPending,
		RefundStatus:       models.RefundNone,
	}
	for _, it := range q.Items {
		order.Items = append(order.Items, models.OrderItem{
			ListingID:      it.ListingID,
			SellerID:       it.SellerID,
			Title:          it.Title,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
			GiftWrapCents:  it.GiftWrapCents,
			ShippingCents:  it.ShippingCents,
		})
	}
	for _, sh := range q.Sellers {
		order.Sellers = append(order.Sellers, models.OrderSeller{
			SellerID:           sh.SellerID,
			ItemsSubtotalCents: sh.ItemsSubtotalCents,
			ShippingCents:      sh.ShippingCents,
			GiftWrapCents:      sh.GiftWrapCents,
			TaxCents:           sh.TaxCents,
			OrderSubtotalCents: sh.OrderSubtotalCents,
			PlatformFeeCents:   sh.PlatformFeeCents,
			ProcessingFeeCents: sh.ProcessingFeeCents,
			AdFeeCents:         sh.AdFeeCents,
			FeesTotalCents:     sh.FeesTotalCents,
			SellerPayoutCents:  sh.SellerPayoutCents,
			AdsEnabledAtSale:   sh.AdsEnabled,
			TransferStatus:     models.TransferPending,
		})
	}
	return order
}

// checkoutLines lists what the buyer pays. The lines always sum to
// OrderTotalCents.
func checkoutLines(order *models.Order) []payment.CheckoutLine {
	lines := make([]payment.CheckoutLine, 0, len(order.Items)+3)
	for _, it := range order.Items {
		lines = append(lines, payment.CheckoutLine{
			Name:            it.Title,
			UnitAmountCents: it.UnitPriceCents,
			Quantity:        int64(it.Quantity),
		})
	}
	extra := []struct {
		name  string
		cents int64
	}{
		{"Gift wrap", order.GiftWrapCents},
		{"Shipping", order.ShippingCents},
		{"Tax", order.TaxCents},
	}
	for _, e := range extra {
		if e.cents > 0 {
			lines = append(lines, payment.CheckoutLine{Name: e.name, UnitAmountCents: e.cents, Quantity: 1})
		}
	}
	return lines
}
