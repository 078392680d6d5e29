// Package pricing computes checkout totals. It is pure: no I/O, no clock,
// integer arithmetic in minor currency units only.
package pricing

import (
	"errors"

	"github.com/google/uuid"

	"shop-order-engine/internal/domain/coupon"
)

var (
	ErrNonPositiveQuantity = errors.New("line quantity must be positive")
	ErrNegativePrice       = errors.New("line price cannot be negative")
)

// Line is one priced cart line. SalePriceCents of 0 means the variant is not
// on sale; the effective unit price is then the list price.
type Line struct {
	VariantID      uuid.UUID
	Quantity       int32
	ListPriceCents int64
	SalePriceCents int64
}

func (l Line) EffectiveUnitPriceCents() int64 {
	if l.SalePriceCents > 0 {
		return l.SalePriceCents
	}
	return l.ListPriceCents
}

// Totals is the full monetary breakdown of one checkout.
// DiscountCents = PromotionCents + CouponCents, so
// FinalCents = TotalCents - DiscountCents + ShippingCents + TaxCents,
// floored at zero.
type Totals struct {
	TotalCents     int64
	PromotionCents int64
	CouponCents    int64
	DiscountCents  int64
	ShippingCents  int64
	TaxCents       int64
	FinalCents     int64

	// AppliedCouponIDs lists, in application order, the coupons that actually
	// took part in this checkout. A coupon skipped for missing its minimum is
	// absent, so it neither waives shipping nor counts toward usage.
	AppliedCouponIDs []uuid.UUID
}

// ComputeTotals prices the lines on a list-price basis, subtracts catalog
// sale promotions, then applies the coupons sequentially in the given order
// against the running post-promotion amount. A coupon whose minimum order
// amount is not met by the running amount is skipped, not an error. Shipping
// is waived entirely if any applied coupon is a free-shipping coupon. Tax is
// charged on the discounted goods amount.
func ComputeTotals(lines []Line, coupons []*coupon.Coupon, shippingFeeCents, taxRatePercent int64) (Totals, error) {
	var total, promotion int64
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, ErrNonPositiveQuantity
		}
		if l.ListPriceCents < 0 || l.SalePriceCents < 0 {
			return Totals{}, ErrNegativePrice
		}
		qty := int64(l.Quantity)
		total += qty * l.ListPriceCents
		promotion += qty * (l.ListPriceCents - l.EffectiveUnitPriceCents())
	}

	seen := make(map[uuid.UUID]struct{}, len(coupons))
	remaining := total - promotion
	var couponDiscount int64
	var applied []uuid.UUID
	waiveShipping := false
	for _, c := range coupons {
		if _, dup := seen[c.ID()]; dup {
			return Totals{}, coupon.ErrDuplicateCoupon
		}
		seen[c.ID()] = struct{}{}

		if !c.MeetsMinOrder(remaining) {
			continue
		}
		if c.WaivesShipping() {
			waiveShipping = true
		}
		d, err := c.DiscountCents(remaining)
		if err != nil {
			return Totals{}, err
		}
		couponDiscount += d
		remaining -= d
		applied = append(applied, c.ID())
	}

	shipping := shippingFeeCents
	if waiveShipping {
		shipping = 0
	}
	tax := remaining * taxRatePercent / 100

	discount := promotion + couponDiscount
	final := total - discount + shipping + tax
	if final < 0 {
		final = 0
	}

	return Totals{
		TotalCents:       total,
		PromotionCents:   promotion,
		CouponCents:      couponDiscount,
		DiscountCents:    discount,
		ShippingCents:    shipping,
		TaxCents:         tax,
		FinalCents:       final,
		AppliedCouponIDs: applied,
	}, nil
}
