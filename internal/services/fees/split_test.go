package fees

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_Split(t *testing.T) {
	calc := newTestCalculator(t)

	res, err := calc.Split(SplitInput{
		Items: []LineItem{
			{SellerID: 1, ListingID: 10, UnitPriceCents: 2000, Quantity: 1},
			{SellerID: 2, ListingID: 20, UnitPriceCents: 3000, Quantity: 1},
			{SellerID: 1, ListingID: 11, UnitPriceCents: 1000, Quantity: 2},
		},
		ShippingCents: 1000,
		TaxCents:      700,
		AdsBySeller:   map[uint]bool{1: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{334, 333, 333}, res.ItemShippingCents)
	require.Len(t, res.Sellers, 2)

	first := res.Sellers[0]
	assert.Equal(t, uint(1), first.SellerID)
	assert.Equal(t, int64(4000), first.ItemsSubtotalCents)
	assert.Equal(t, int64(667), first.ShippingCents)
	assert.Equal(t, int64(4667), first.OrderSubtotalCents)
	assert.Equal(t, int64(408), first.TaxCents)
	assert.Equal(t, int64(233), first.PlatformFeeCents)
	assert.Equal(t, int64(93), first.ProcessingFeeCents)
	assert.Equal(t, int64(700), first.AdFeeCents)
	assert.Equal(t, int64(3641), first.SellerPayoutCents)

	second := res.Sellers[1]
	assert.Equal(t, uint(2), second.SellerID)
	assert.Equal(t, int64(3333), second.OrderSubtotalCents)
	assert.Equal(t, int64(292), second.TaxCents)
	assert.Zero(t, second.AdFeeCents, "seller without advertising pays no ad fee")
	assert.Equal(t, int64(3099), second.SellerPayoutCents)

	assert.Equal(t, int64(8000), res.Order.OrderSubtotalCents)
	assert.Equal(t, int64(1000), res.Order.ShippingCents)
	assert.Equal(t, int64(700), res.Order.TaxCents)
	assert.Equal(t, int64(8700), res.Order.OrderTotalCents)
	assert.Equal(t, int64(6740), res.Order.SellerPayoutCents)
	assert.True(t, res.Order.AdsEnabled)
}

func TestCalculator_SplitValidation(t *testing.T) {
	calc := newTestCalculator(t)

	_, err := calc.Split(SplitInput{})
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = calc.Split(SplitInput{Items: []LineItem{{SellerID: 1, UnitPriceCents: 100, Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = calc.Split(SplitInput{Items: []LineItem{{SellerID: 1, UnitPriceCents: -100, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = calc.Split(SplitInput{Items: []LineItem{{SellerID: 1, UnitPriceCents: 100, Quantity: 1}}, ShippingCents: -5})
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestCalculator_SplitRejectsOverflow(t *testing.T) {
	calc := newTestCalculator(t)

	// 2^62 * 4 wraps to zero in int64.
	_, err := calc.Split(SplitInput{
		Items: []LineItem{{SellerID: 1, UnitPriceCents: 1 << 62, Quantity: 4}},
	})
	assert.ErrorIs(t, err, ErrInvalidItem)

	// Each line fits on its own but the sum does not.
	_, err = calc.Split(SplitInput{
		Items: []LineItem{
			{SellerID: 1, UnitPriceCents: 1<<62 + 1, Quantity: 1},
			{SellerID: 2, UnitPriceCents: 1<<62 + 1, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = calc.Split(SplitInput{
		Items:         []LineItem{{SellerID: 1, UnitPriceCents: 100, Quantity: 1}},
		ShippingCents: math.MaxInt64,
		TaxCents:      1,
	})
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = calc.Calculate(Input{ItemsSubtotalCents: math.MaxInt64, ShippingCents: 1})
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestCalculator_SplitConservesCents(t *testing.T) {
	calc := newTestCalculator(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		n := 1 + rng.Intn(7)
		items := make([]LineItem, n)
		ads := map[uint]bool{}
		for j := range items {
			seller := uint(1 + rng.Intn(3))
			items[j] = LineItem{
				SellerID:       seller,
				ListingID:      uint(j + 1),
				UnitPriceCents: rng.Int63n(50_000),
				Quantity:       1 + rng.Intn(4),
				GiftWrapCents:  rng.Int63n(3) * 250,
			}
			ads[seller] = rng.Intn(2) == 1
		}
		in := SplitInput{
			Items:         items,
			ShippingCents: rng.Int63n(10_000),
			TaxCents:      rng.Int63n(20_000),
			AdsBySeller:   ads,
		}

		res, err := calc.Split(in)
		require.NoError(t, err)

		var shipping, tax, subtotal, fees, payouts int64
		for _, s := range res.ItemShippingCents {
			shipping += s
		}
		for _, s := range res.Sellers {
			tax += s.TaxCents
			subtotal += s.OrderSubtotalCents
			fees += s.FeesTotalCents
			payouts += s.SellerPayoutCents
			if !ads[s.SellerID] {
				assert.Zero(t, s.AdFeeCents)
			}
		}
		assert.Equal(t, in.ShippingCents, shipping)
		assert.Equal(t, in.TaxCents, tax)
		assert.Equal(t, res.Order.OrderSubtotalCents, subtotal)
		assert.Equal(t, subtotal, fees+payouts)
		assert.Equal(t, res.Order.OrderSubtotalCents+in.TaxCents, res.Order.OrderTotalCents)
	}
}

func TestAllocateEvenly(t *testing.T) {
	assert.Equal(t, []int64{4, 3, 3}, AllocateEvenly(10, 3))
	assert.Equal(t, []int64{0, 0}, AllocateEvenly(0, 2))
	assert.Nil(t, AllocateEvenly(10, 0))
}

func TestAllocateProportionally(t *testing.T) {
	assert.Equal(t, []int64{50, 50}, AllocateProportionally(100, []int64{1, 1}))
	assert.Equal(t, []int64{34, 33, 33}, AllocateProportionally(100, []int64{1, 1, 1}))
	assert.Equal(t, []int64{0, 10}, AllocateProportionally(10, []int64{0, 5}))
	assert.Equal(t, []int64{2, 1}, AllocateProportionally(3, []int64{0, 0}))
}
