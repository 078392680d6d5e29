package coupon

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive        = errors.New("coupon is not active")
	ErrCouponNotYetValid     = errors.New("coupon is not yet valid")
	ErrCouponExpired         = errors.New("coupon has expired")
	ErrUsageLimitReached     = errors.New("coupon usage limit reached")
	ErrUserUsageLimitReached = errors.New("coupon usage limit for this user reached")
	ErrBelowMinOrderAmount   = errors.New("order amount is below the coupon minimum")
	ErrUnknownDiscountType   = errors.New("unknown discount type")
	ErrNegativeDiscountInput = errors.New("discountable amount cannot be negative")
	ErrInvalidDiscountValue  = errors.New("discount value is out of range")
	ErrDuplicateCoupon       = errors.New("same coupon applied more than once")
)

type Coupon struct {
	id                  uuid.UUID
	code                Code
	discountType        DiscountType
	value               int64
	maxDiscountCents    *int64
	minOrderCents       *int64
	usageLimitPerCoupon *int32
	usageLimitPerUser   *int32
	currentUsage        int32
	validFrom           time.Time
	validUntil          time.Time
	isActive            bool
}

// ReconstructCoupon rebuilds a coupon from persisted state without
// re-validating it; rule checks happen in ValidateAt.
func ReconstructCoupon(
	id uuid.UUID,
	code Code,
	discountType DiscountType,
	value int64,
	maxDiscountCents, minOrderCents *int64,
	usageLimitPerCoupon, usageLimitPerUser *int32,
	currentUsage int32,
	validFrom, validUntil time.Time,
	isActive bool,
) *Coupon {
	return &Coupon{
		id:                  id,
		code:                code,
		discountType:        discountType,
		value:               value,
		maxDiscountCents:    maxDiscountCents,
		minOrderCents:       minOrderCents,
		usageLimitPerCoupon: usageLimitPerCoupon,
		usageLimitPerUser:   usageLimitPerUser,
		currentUsage:        currentUsage,
		validFrom:           validFrom,
		validUntil:          validUntil,
		isActive:            isActive,
	}
}

func (c *Coupon) ID() uuid.UUID               { return c.id }
func (c *Coupon) Code() Code                  { return c.code }
func (c *Coupon) Type() DiscountType          { return c.discountType }
func (c *Coupon) Value() int64                { return c.value }
func (c *Coupon) MaxDiscountCents() *int64    { return c.maxDiscountCents }
func (c *Coupon) MinOrderCents() *int64       { return c.minOrderCents }
func (c *Coupon) UsageLimitPerCoupon() *int32 { return c.usageLimitPerCoupon }
func (c *Coupon) UsageLimitPerUser() *int32   { return c.usageLimitPerUser }
func (c *Coupon) CurrentUsage() int32         { return c.currentUsage }
func (c *Coupon) ValidFrom() time.Time        { return c.validFrom }
func (c *Coupon) ValidUntil() time.Time       { return c.validUntil }
func (c *Coupon) IsActive() bool              { return c.isActive }

// ValidateAt runs the rule checks in a fixed order and returns the first
// failure. userUsageCount must be read inside the same transaction as any
// subsequent usage recording; this method only judges the numbers it is given.
func (c *Coupon) ValidateAt(now time.Time, orderAmountCents int64, userUsageCount int64) error {
	if !c.isActive {
		return ErrCouponInactive
	}
	if now.Before(c.validFrom) {
		return ErrCouponNotYetValid
	}
	if now.After(c.validUntil) {
		return ErrCouponExpired
	}
	if c.usageLimitPerCoupon != nil && c.currentUsage >= *c.usageLimitPerCoupon {
		return ErrUsageLimitReached
	}
	if c.usageLimitPerUser != nil && userUsageCount >= int64(*c.usageLimitPerUser) {
		return ErrUserUsageLimitReached
	}
	if c.minOrderCents != nil && orderAmountCents < *c.minOrderCents {
		return fmt.Errorf("%w: requires at least %d", ErrBelowMinOrderAmount, *c.minOrderCents)
	}
	return nil
}

// MeetsMinOrder reports whether the coupon may contribute a discount for the
// given amount. During stacking a coupon below its own minimum is skipped,
// not rejected.
func (c *Coupon) MeetsMinOrder(orderAmountCents int64) bool {
	return c.minOrderCents == nil || orderAmountCents >= *c.minOrderCents
}

// DiscountCents computes the monetary discount against the remaining
// discountable amount. The result never exceeds remainingCents and is never
// negative. free_shipping and bundle coupons carry no monetary discount;
// their effect is applied to the shipping fee and fulfillment policy at
// checkout.
func (c *Coupon) DiscountCents(remainingCents int64) (int64, error) {
	if remainingCents < 0 {
		return 0, ErrNegativeDiscountInput
	}

	var discount int64
	switch c.discountType {
	case DiscountFixed:
		discount = c.value
	case DiscountPercentage:
		if c.value < 0 || c.value > 100 {
			return 0, ErrInvalidDiscountValue
		}
		discount = remainingCents * c.value / 100
		if c.maxDiscountCents != nil && discount > *c.maxDiscountCents {
			discount = *c.maxDiscountCents
		}
	case DiscountFreeShipping, DiscountBundle:
		discount = 0
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDiscountType, c.discountType)
	}

	if discount < 0 {
		discount = 0
	}
	if discount > remainingCents {
		discount = remainingCents
	}
	return discount, nil
}

// WaivesShipping reports whether applying the coupon zeroes the shipping fee.
func (c *Coupon) WaivesShipping() bool {
	return c.discountType == DiscountFreeShipping
}
