package request

import (
	"strings"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	PaymentMethodID   uuid.UUID   `json:"payment_method_id" binding:"required"`
	DeliveryAddressID *uuid.UUID  `json:"delivery_address_id,omitempty"`
	CartLineIDs       []uuid.UUID `json:"cart_line_ids,omitempty"`
	CouponCodes       []string    `json:"coupon_codes,omitempty"`
	Note              *string     `json:"note,omitempty"`
}

// NormalizedCouponCodes strips blanks so "SAVE10, " style input does not
// produce a phantom coupon lookup.
func (r CreateOrderRequest) NormalizedCouponCodes() []string {
	codes := make([]string, 0, len(r.CouponCodes))
	for _, c := range r.CouponCodes {
		trimmed := strings.TrimSpace(c)
		if trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	return codes
}

type AdvanceOrderRequest struct {
	Note *string `json:"note,omitempty"`
}

type CancelOrderRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type ReturnOrderItemRequest struct {
	LineItemID uuid.UUID `json:"line_item_id" binding:"required"`
	Quantity   int32     `json:"quantity" binding:"required,gt=0"`
}

type ReturnOrderRequest struct {
	Items  []ReturnOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Reason *string                  `json:"reason,omitempty"`
}
