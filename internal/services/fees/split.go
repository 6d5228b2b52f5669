package fees

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// LineItem is one cart line for a multi-seller checkout.
type LineItem struct {
	SellerID       uint  `json:"seller_id"`
	ListingID      uint  `json:"listing_id"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	Quantity       int   `json:"quantity"`
	GiftWrapCents  int64 `json:"gift_wrap_cents"`
}

// SubtotalCents is price times quantity. ok is false when the product does
// not fit in int64.
func (li LineItem) SubtotalCents() (cents int64, ok bool) {
	return MulCents(li.UnitPriceCents, int64(li.Quantity))
}

// MulCents multiplies two non-negative amounts, reporting false on overflow.
func MulCents(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a < 0 || b < 0 || a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// AddCents adds two amounts, reporting false when a positive b overflows.
func AddCents(a, b int64) (int64, bool) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

type SplitInput struct {
	Items         []LineItem
	ShippingCents int64
	TaxCents      int64
	Country       string
	AdsBySeller   map[uint]bool
}

// SellerShare is one seller's portion of an order.
type SellerShare struct {
	SellerID uint `json:"seller_id"`
	Breakdown
}

type SplitResult struct {
	Order             Breakdown     `json:"order"`
	Sellers           []SellerShare `json:"sellers"`
	ItemShippingCents []int64       `json:"item_shipping_cents"`
}

// Split allocates shipping across line items, groups lines by seller and runs
// each seller's share through Calculate with that seller's own advertising
// opt-in. The order breakdown is the sum of the seller shares, so every cent
// of shipping, tax and subtotal is accounted for.
func (c *Calculator) Split(in SplitInput) (*SplitResult, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	if in.ShippingCents < 0 || in.TaxCents < 0 {
		return nil, ErrNegativeAmount
	}
	for i, it := range in.Items {
		if it.SellerID == 0 || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d needs a seller and a positive quantity", ErrInvalidItem, i)
		}
		if it.UnitPriceCents < 0 || it.GiftWrapCents < 0 {
			return nil, fmt.Errorf("%w: line %d", ErrNegativeAmount, i)
		}
	}

	// Reject carts whose total does not fit in int64 before anything is summed.
	total, ok := AddCents(in.ShippingCents, in.TaxCents)
	if !ok {
		return nil, fmt.Errorf("%w: shipping and tax are too large", ErrInvalidItem)
	}
	for i, it := range in.Items {
		sub, ok := it.SubtotalCents()
		if ok {
			total, ok = AddCents(total, sub)
		}
		if ok {
			total, ok = AddCents(total, it.GiftWrapCents)
		}
		if !ok {
			return nil, fmt.Errorf("%w: line %d amount is too large", ErrInvalidItem, i)
		}
	}

	shipping := AllocateEvenly(in.ShippingCents, len(in.Items))

	type share struct {
		items, shipping, giftWrap int64
	}
	var sellers []uint
	bySeller := make(map[uint]*share)
	for i, it := range in.Items {
		s, ok := bySeller[it.SellerID]
		if !ok {
			s = &share{}
			bySeller[it.SellerID] = s
			sellers = append(sellers, it.SellerID)
		}
		sub, _ := it.SubtotalCents()
		s.items += sub
		s.shipping += shipping[i]
		s.giftWrap += it.GiftWrapCents
	}

	weights := make([]int64, len(sellers))
	for i, id := range sellers {
		s := bySeller[id]
		weights[i] = s.items + s.shipping + s.giftWrap
	}
	taxes := AllocateProportionally(in.TaxCents, weights)

	res := &SplitResult{ItemShippingCents: shipping}
	for i, id := range sellers {
		s := bySeller[id]
		b, err := c.Calculate(Input{
			ItemsSubtotalCents: s.items,
			ShippingCents:      s.shipping,
			GiftWrapCents:      s.giftWrap,
			TaxCents:           taxes[i],
			Country:            in.Country,
			AdsEnabled:         in.AdsBySeller[id],
		})
		if err != nil {
			return nil, fmt.Errorf("seller %d: %w", id, err)
		}
		res.Sellers = append(res.Sellers, SellerShare{SellerID: id, Breakdown: b})
		res.Order.add(b)
	}
	res.Order.ProcessingRule, _ = c.rates.processingFor(in.Country)
	return res, nil
}

// AllocateEvenly divides total into n parts that differ by at most one cent.
// The first total%n parts receive the extra cent.
func AllocateEvenly(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	out := make([]int64, n)
	base := total / int64(n)
	rem := total % int64(n)
	for i := range out {
		out[i] = base
		if int64(i) < rem {
			out[i]++
		}
	}
	return out
}

// AllocateProportionally splits total by weight using the largest-remainder
// method. Ties go to the earlier index. Zero total weight falls back to an
// even split.
func AllocateProportionally(total int64, weights []int64) []int64 {
	if len(weights) == 0 {
		return nil
	}
	var sum int64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return AllocateEvenly(total, len(weights))
	}

	out := make([]int64, len(weights))
	rems := make([]decimal.Decimal, len(weights))
	divisor := decimal.NewFromInt(sum)
	allocated := int64(0)
	for i, w := range weights {
		q, r := decimal.NewFromInt(total).Mul(decimal.NewFromInt(w)).QuoRem(divisor, 0)
		out[i] = q.IntPart()
		rems[i] = r
		allocated += out[i]
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]].GreaterThan(rems[order[b]])
	})
	for i := 0; allocated < total; i++ {
		out[order[i%len(order)]]++
		allocated++
	}
	return out
}
