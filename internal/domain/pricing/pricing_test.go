//go:build unit

package pricing_test

import (
	"testing"

	"shop-order-engine/internal/domain/coupon"
	"shop-order-engine/internal/domain/pricing"
	"shop-order-engine/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(qty int32, listCents, saleCents int64) pricing.Line {
	return pricing.Line{
		VariantID:      uuid.New(),
		Quantity:       qty,
		ListPriceCents: listCents,
		SalePriceCents: saleCents,
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("sale price and percentage coupon", func(t *testing.T) {
		lines := []pricing.Line{
			line(2, 100_000, 80_000),
			line(1, 50_000, 0),
		}
		save10 := builder.NewCouponBuilder().WithPercentage(10).BuildDomain()

		got, err := pricing.ComputeTotals(lines, []*coupon.Coupon{save10}, 0, 0)
		require.NoError(t, err)

		want := pricing.Totals{
			TotalCents:       250_000,
			PromotionCents:   40_000,
			CouponCents:      21_000,
			DiscountCents:    61_000,
			ShippingCents:    0,
			TaxCents:         0,
			FinalCents:       189_000,
			AppliedCouponIDs: []uuid.UUID{save10.ID()},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("totals mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no coupons", func(t *testing.T) {
		got, err := pricing.ComputeTotals([]pricing.Line{line(3, 10_000, 0)}, nil, 2_000, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(30_000), got.TotalCents)
		assert.Equal(t, int64(0), got.DiscountCents)
		assert.Equal(t, int64(32_000), got.FinalCents)
	})

	t.Run("fixed coupon is capped at remaining amount", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithFixed(50_000).BuildDomain()
		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 30_000, 0)}, []*coupon.Coupon{c}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(30_000), got.CouponCents)
		assert.Equal(t, int64(0), got.FinalCents)
	})

	t.Run("percentage coupon respects max discount cap", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithPercentage(50).WithMaxDiscount(5_000).BuildDomain()
		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 100_000, 0)}, []*coupon.Coupon{c}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5_000), got.CouponCents)
	})

	t.Run("coupons stack sequentially in input order", func(t *testing.T) {
		fixed := builder.NewCouponBuilder().WithFixed(10_000).BuildDomain()
		percent := builder.NewCouponBuilder().WithPercentage(10).BuildDomain()

		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 110_000, 0)}, []*coupon.Coupon{fixed, percent}, 0, 0)
		require.NoError(t, err)
		// 110,000 - 10,000 = 100,000, then 10% of 100,000.
		assert.Equal(t, int64(20_000), got.CouponCents)
		assert.Equal(t, int64(90_000), got.FinalCents)
	})

	t.Run("coupon below its own minimum is skipped", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithPercentage(10).WithMinOrder(100_000).BuildDomain()
		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 50_000, 0)}, []*coupon.Coupon{c}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.CouponCents)
		assert.Equal(t, int64(50_000), got.FinalCents)
	})

	t.Run("minimum is judged against the post-promotion running amount", func(t *testing.T) {
		first := builder.NewCouponBuilder().WithFixed(60_000).BuildDomain()
		second := builder.NewCouponBuilder().WithPercentage(10).WithMinOrder(50_000).BuildDomain()

		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 100_000, 0)}, []*coupon.Coupon{first, second}, 0, 0)
		require.NoError(t, err)
		// After the fixed coupon only 40,000 remains, below the 50,000 minimum.
		assert.Equal(t, int64(60_000), got.CouponCents)
		assert.Equal(t, []uuid.UUID{first.ID()}, got.AppliedCouponIDs)
	})

	t.Run("free shipping coupon below its minimum does not waive shipping", func(t *testing.T) {
		first := builder.NewCouponBuilder().WithFixed(60_000).BuildDomain()
		freeShip := builder.NewCouponBuilder().WithFreeShipping().WithMinOrder(50_000).BuildDomain()

		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 100_000, 0)}, []*coupon.Coupon{first, freeShip}, 3_000, 0)
		require.NoError(t, err)
		// 40,000 remains after the fixed coupon, below the free-shipping minimum.
		assert.Equal(t, int64(3_000), got.ShippingCents)
		assert.Equal(t, []uuid.UUID{first.ID()}, got.AppliedCouponIDs)
	})

	t.Run("free shipping coupon waives shipping and nothing else", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithFreeShipping().BuildDomain()

		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 50_000, 0)}, []*coupon.Coupon{c}, 3_000, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.CouponCents)
		assert.Equal(t, int64(0), got.ShippingCents)
		assert.Equal(t, int64(50_000), got.FinalCents)
	})

	t.Run("tax applies to the discounted goods amount", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithFixed(20_000).BuildDomain()
		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 120_000, 0)}, []*coupon.Coupon{c}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10_000), got.TaxCents)
		assert.Equal(t, int64(110_000), got.FinalCents)
	})

	t.Run("duplicate coupon in one checkout is rejected", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithPercentage(10).BuildDomain()
		_, err := pricing.ComputeTotals([]pricing.Line{line(1, 50_000, 0)}, []*coupon.Coupon{c, c}, 0, 0)
		assert.ErrorIs(t, err, coupon.ErrDuplicateCoupon)
	})

	t.Run("final amount never goes negative", func(t *testing.T) {
		first := builder.NewCouponBuilder().WithFixed(100_000).BuildDomain()
		second := builder.NewCouponBuilder().WithFixed(100_000).BuildDomain()

		got, err := pricing.ComputeTotals([]pricing.Line{line(1, 50_000, 0)}, []*coupon.Coupon{first, second}, 0, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.FinalCents, int64(0))
	})

	t.Run("invalid line quantity", func(t *testing.T) {
		_, err := pricing.ComputeTotals([]pricing.Line{line(0, 10_000, 0)}, nil, 0, 0)
		assert.ErrorIs(t, err, pricing.ErrNonPositiveQuantity)
	})

	t.Run("negative line price", func(t *testing.T) {
		_, err := pricing.ComputeTotals([]pricing.Line{line(1, -1, 0)}, nil, 0, 0)
		assert.ErrorIs(t, err, pricing.ErrNegativePrice)
	})
}
