package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type OrderView struct {
	ID            uuid.UUID           `json:"id"`
	Code          string              `json:"code"`
	UserID        uuid.UUID           `json:"user_id"`
	UserEmail     string              `json:"user_email"`
	Status        string              `json:"status"`
	TotalCents    int64               `json:"total_cents"`
	DiscountCents int64               `json:"discount_cents"`
	ShippingCents int64               `json:"shipping_cents"`
	TaxCents      int64               `json:"tax_cents"`
	FinalCents    int64               `json:"final_cents"`
	Note          *string             `json:"note,omitempty"`
	Items         []OrderLineItemView `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type OrderLineItemView struct {
	ID             uuid.UUID `json:"id"`
	VariantID      uuid.UUID `json:"variant_id"`
	ProductName    string    `json:"product_name"`
	SKU            string    `json:"sku"`
	ImageURL       *string   `json:"image_url,omitempty"`
	SizeLabel      *string   `json:"size_label,omitempty"`
	ColorLabel     *string   `json:"color_label,omitempty"`
	Quantity       int32     `json:"quantity"`
	PriceCents     int64     `json:"price_cents"`
	SalePriceCents int64     `json:"sale_price_cents"`
}

type OrderListItem struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Status     string    `json:"status"`
	FinalCents int64     `json:"final_cents"`
	ItemCount  int64     `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderHistoryView struct {
	ID        uuid.UUID  `json:"id"`
	Status    string     `json:"status"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Note      *string    `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type CouponView struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Type             string    `json:"type"`
	Value            int64     `json:"value"`
	MaxDiscountCents *int64    `json:"max_discount_cents,omitempty"`
	MinOrderCents    *int64    `json:"min_order_cents,omitempty"`
	ValidFrom        time.Time `json:"valid_from"`
	ValidUntil       time.Time `json:"valid_until"`
	IsActive         bool      `json:"is_active"`
}

type CartLineView struct {
	ID             uuid.UUID `json:"id"`
	VariantID      uuid.UUID `json:"variant_id"`
	ProductName    string    `json:"product_name"`
	SKU            string    `json:"sku"`
	ImageURL       *string   `json:"image_url,omitempty"`
	SizeLabel      *string   `json:"size_label,omitempty"`
	ColorLabel     *string   `json:"color_label,omitempty"`
	Quantity       int32     `json:"quantity"`
	ListPriceCents int64     `json:"list_price_cents"`
	SalePriceCents int64     `json:"sale_price_cents"`
	Stock          int32     `json:"stock"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	IsStaff  bool      `json:"is_staff"`
	IsActive bool      `json:"is_active"`
}
