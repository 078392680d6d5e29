//go:build unit || e2e

package builder

import (
	"time"

	reqdto "shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/usecase/queries"
	"shop-order-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type OrderBuilder struct {
	ID              uuid.UUID
	Code            string
	UserID          uuid.UUID
	UserEmail       string
	Status          string
	TotalCents      int64
	DiscountCents   int64
	ShippingCents   int64
	TaxCents        int64
	FinalCents      int64
	Note            *string
	PaymentMethodID uuid.UUID
	VariantID       uuid.UUID
	ProductName     string
	SKU             string
	Quantity        int32
	PriceCents      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewOrderBuilder() *OrderBuilder {
	now := time.Now()
	return &OrderBuilder{
		ID:              uuid.New(),
		Code:            "20260830-153000-A1B2C3",
		UserID:          uuid.New(),
		UserEmail:       "buyer@example.com",
		Status:          "pending",
		TotalCents:      5000,
		DiscountCents:   0,
		ShippingCents:   500,
		TaxCents:        550,
		FinalCents:      6050,
		PaymentMethodID: uuid.New(),
		VariantID:       uuid.New(),
		ProductName:     "Basic Tee",
		SKU:             "TEE-BLK-M",
		Quantity:        2,
		PriceCents:      2500,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) WithUserID(userID uuid.UUID) *OrderBuilder {
	b.UserID = userID
	return b
}

func (b *OrderBuilder) WithStatus(status string) *OrderBuilder {
	b.Status = status
	return b
}

func (b *OrderBuilder) WithNote(note string) *OrderBuilder {
	b.Note = &note
	return b
}

func (b *OrderBuilder) WithAmounts(total, discount, shipping, tax, final int64) *OrderBuilder {
	b.TotalCents = total
	b.DiscountCents = discount
	b.ShippingCents = shipping
	b.TaxCents = tax
	b.FinalCents = final
	return b
}

func (b *OrderBuilder) BuildView() *queries.OrderView {
	return &queries.OrderView{
		ID:            b.ID,
		Code:          b.Code,
		UserID:        b.UserID,
		UserEmail:     b.UserEmail,
		Status:        b.Status,
		TotalCents:    b.TotalCents,
		DiscountCents: b.DiscountCents,
		ShippingCents: b.ShippingCents,
		TaxCents:      b.TaxCents,
		FinalCents:    b.FinalCents,
		Note:          b.Note,
		Items: []queries.OrderLineItemView{
			{
				ID:             uuid.New(),
				VariantID:      b.VariantID,
				ProductName:    b.ProductName,
				SKU:            b.SKU,
				Quantity:       b.Quantity,
				PriceCents:     b.PriceCents,
				SalePriceCents: b.PriceCents,
			},
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (b *OrderBuilder) BuildListItem() *queries.OrderListItem {
	return &queries.OrderListItem{
		ID:         b.ID,
		Code:       b.Code,
		Status:     b.Status,
		FinalCents: b.FinalCents,
		ItemCount:  int64(b.Quantity),
		CreatedAt:  b.CreatedAt,
	}
}

func (b *OrderBuilder) BuildHistoryView() []*queries.OrderHistoryView {
	return []*queries.OrderHistoryView{
		{
			ID:        uuid.New(),
			Status:    b.Status,
			ActorID:   &b.UserID,
			CreatedAt: b.CreatedAt,
		},
	}
}

func (b *OrderBuilder) BuildCreateRequestDTO() reqdto.CreateOrderRequest {
	return reqdto.CreateOrderRequest{
		PaymentMethodID: b.PaymentMethodID,
		Note:            b.Note,
	}
}

func (b *OrderBuilder) BuildCartLineSnapshot() *shared.CartLineSnapshot {
	return &shared.CartLineSnapshot{
		CartLineID:       uuid.New(),
		VariantID:        b.VariantID,
		Quantity:         b.Quantity,
		ListPriceCents:   b.PriceCents,
		SalePriceCents:   b.PriceCents,
		Stock:            10,
		VariantActive:    true,
		ProductPublished: true,
		ProductName:      b.ProductName,
		SKU:              b.SKU,
	}
}
