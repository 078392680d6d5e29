package request

type ValidateCouponRequest struct {
	Code             string `json:"code" binding:"required"`
	OrderAmountCents *int64 `json:"order_amount_cents,omitempty" binding:"omitempty,gte=0"`
}
