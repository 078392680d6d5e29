//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"shop-order-engine/internal/domain/coupon"
	"shop-order-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i32(v int32) *int32 { return &v }

func TestCouponValidateAt(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		mutate     func(*builder.CouponBuilder)
		orderCents int64
		userUsed   int64
		errIs      error
	}{
		{
			name:       "valid coupon passes",
			mutate:     func(b *builder.CouponBuilder) {},
			orderCents: 10_000,
		},
		{
			name:   "inactive",
			mutate: func(b *builder.CouponBuilder) { b.IsActive = false },
			errIs:  coupon.ErrCouponInactive,
		},
		{
			name:   "not yet valid",
			mutate: func(b *builder.CouponBuilder) { b.ValidFrom = now.Add(time.Hour) },
			errIs:  coupon.ErrCouponNotYetValid,
		},
		{
			name:   "expired",
			mutate: func(b *builder.CouponBuilder) { b.ValidUntil = now.Add(-time.Hour) },
			errIs:  coupon.ErrCouponExpired,
		},
		{
			name: "global usage cap reached",
			mutate: func(b *builder.CouponBuilder) {
				b.WithUsageLimits(i32(5), nil)
				b.CurrentUsage = 5
			},
			errIs: coupon.ErrUsageLimitReached,
		},
		{
			name: "global usage cap not yet reached",
			mutate: func(b *builder.CouponBuilder) {
				b.WithUsageLimits(i32(5), nil)
				b.CurrentUsage = 4
			},
		},
		{
			name:     "per-user cap reached",
			mutate:   func(b *builder.CouponBuilder) { b.WithUsageLimits(nil, i32(2)) },
			userUsed: 2,
			errIs:    coupon.ErrUserUsageLimitReached,
		},
		{
			name:     "per-user cap not yet reached",
			mutate:   func(b *builder.CouponBuilder) { b.WithUsageLimits(nil, i32(2)) },
			userUsed: 1,
		},
		{
			name:       "below minimum order amount",
			mutate:     func(b *builder.CouponBuilder) { b.WithMinOrder(50_000) },
			orderCents: 49_999,
			errIs:      coupon.ErrBelowMinOrderAmount,
		},
		{
			name:       "exactly at minimum order amount",
			mutate:     func(b *builder.CouponBuilder) { b.WithMinOrder(50_000) },
			orderCents: 50_000,
		},
		{
			name: "inactive wins over expired",
			mutate: func(b *builder.CouponBuilder) {
				b.IsActive = false
				b.ValidUntil = now.Add(-time.Hour)
			},
			errIs: coupon.ErrCouponInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.NewCouponBuilder()
			tt.mutate(b)
			err := b.BuildDomain().ValidateAt(now, tt.orderCents, tt.userUsed)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCouponDiscountCents(t *testing.T) {
	t.Run("unknown type is an error", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithType(coupon.DiscountType("mystery")).BuildDomain()
		_, err := c.DiscountCents(10_000)
		assert.ErrorIs(t, err, coupon.ErrUnknownDiscountType)
	})

	t.Run("percentage over 100 is an error", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithPercentage(120).BuildDomain()
		_, err := c.DiscountCents(10_000)
		assert.ErrorIs(t, err, coupon.ErrInvalidDiscountValue)
	})

	t.Run("negative remaining is an error", func(t *testing.T) {
		c := builder.NewCouponBuilder().BuildDomain()
		_, err := c.DiscountCents(-1)
		assert.ErrorIs(t, err, coupon.ErrNegativeDiscountInput)
	})

	t.Run("bundle contributes no monetary discount", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithType(coupon.DiscountBundle).BuildDomain()
		d, err := c.DiscountCents(10_000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), d)
	})
}

func TestNewCode(t *testing.T) {
	t.Run("lowercased input is normalized", func(t *testing.T) {
		code, err := coupon.NewCode(" save10 ")
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", code.String())
	})

	t.Run("invalid characters rejected", func(t *testing.T) {
		_, err := coupon.NewCode("SAVE-10!")
		assert.ErrorIs(t, err, coupon.ErrInvalidCouponCode)
	})

	t.Run("too short rejected", func(t *testing.T) {
		_, err := coupon.NewCode("AB")
		assert.ErrorIs(t, err, coupon.ErrInvalidCouponCode)
	})
}
