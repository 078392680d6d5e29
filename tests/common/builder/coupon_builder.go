//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "shop-order-engine/internal/domain/coupon"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID                  uuid.UUID
	Code                string
	Type                domcoupon.DiscountType
	Value               int64
	MaxDiscountCents    *int64
	MinOrderCents       *int64
	UsageLimitPerCoupon *int32
	UsageLimitPerUser   *int32
	CurrentUsage        int32
	ValidFrom           time.Time
	ValidUntil          time.Time
	IsActive            bool
}

func NewCouponBuilder() *CouponBuilder {
	// The window is absolute and wide so the default coupon reads as currently
	// valid under the real clock and under tests' pinned mock clocks alike.
	return &CouponBuilder{
		ID:         uuid.New(),
		Code:       "SAVE10",
		Type:       domcoupon.DiscountPercentage,
		Value:      10,
		ValidFrom:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) WithFixed(amountCents int64) *CouponBuilder {
	b.Type = domcoupon.DiscountFixed
	b.Value = amountCents
	return b
}

func (b *CouponBuilder) WithPercentage(percent int64) *CouponBuilder {
	b.Type = domcoupon.DiscountPercentage
	b.Value = percent
	return b
}

func (b *CouponBuilder) WithMaxDiscount(cents int64) *CouponBuilder {
	b.MaxDiscountCents = &cents
	return b
}

func (b *CouponBuilder) WithMinOrder(cents int64) *CouponBuilder {
	b.MinOrderCents = &cents
	return b
}

func (b *CouponBuilder) WithUsageLimits(perCoupon, perUser *int32) *CouponBuilder {
	b.UsageLimitPerCoupon = perCoupon
	b.UsageLimitPerUser = perUser
	return b
}

func (b *CouponBuilder) WithFreeShipping() *CouponBuilder {
	b.Type = domcoupon.DiscountFreeShipping
	b.Value = 0
	return b
}

func (b *CouponBuilder) WithType(t domcoupon.DiscountType) *CouponBuilder {
	b.Type = t
	return b
}

func (b *CouponBuilder) BuildDomain() *domcoupon.Coupon {
	code, _ := domcoupon.NewCode(b.Code)
	return domcoupon.ReconstructCoupon(
		b.ID, code, b.Type, b.Value,
		b.MaxDiscountCents, b.MinOrderCents,
		b.UsageLimitPerCoupon, b.UsageLimitPerUser,
		b.CurrentUsage, b.ValidFrom, b.ValidUntil, b.IsActive,
	)
}
