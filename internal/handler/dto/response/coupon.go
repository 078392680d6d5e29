package response

import (
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"
)

type CouponResponse struct {
	ID               string `json:"id"`
	Code             string `json:"code"`
	Type             string `json:"type"`
	Value            int64  `json:"value"`
	MaxDiscountCents *int64 `json:"max_discount_cents,omitempty"`
	MinOrderCents    *int64 `json:"min_order_cents,omitempty"`
	ValidFrom        int64  `json:"valid_from"`
	ValidUntil       int64  `json:"valid_until"`
	IsActive         bool   `json:"is_active"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:               v.ID.String(),
		Code:             v.Code,
		Type:             v.Type,
		Value:            v.Value,
		MaxDiscountCents: v.MaxDiscountCents,
		MinOrderCents:    v.MinOrderCents,
		ValidFrom:        v.ValidFrom.Unix(),
		ValidUntil:       v.ValidUntil.Unix(),
		IsActive:         v.IsActive,
	}
}

func FromCouponList(items []*queries.CouponView) []*CouponResponse {
	res := make([]*CouponResponse, len(items))
	for i, it := range items {
		res[i] = FromCouponView(it)
	}
	return res
}

type CouponValidationResponse struct {
	Valid          bool    `json:"valid"`
	Message        string  `json:"message"`
	CouponID       *string `json:"coupon_id,omitempty"`
	Code           string  `json:"code"`
	DiscountCents  int64   `json:"discount_cents"`
	WaivesShipping bool    `json:"waives_shipping"`
}

func FromCouponValidation(r *commands.CouponValidationResult) *CouponValidationResponse {
	var couponID *string
	if r.CouponID != nil {
		s := r.CouponID.String()
		couponID = &s
	}
	return &CouponValidationResponse{
		Valid:          r.Valid,
		Message:        r.Message,
		CouponID:       couponID,
		Code:           r.Code,
		DiscountCents:  r.DiscountCents,
		WaivesShipping: r.WaivesShipping,
	}
}
