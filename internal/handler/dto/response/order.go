package response

import (
	"shop-order-engine/internal/usecase/queries"
)

type OrderResponse struct {
	ID            string                  `json:"id"`
	Code          string                  `json:"code"`
	UserID        string                  `json:"user_id"`
	UserEmail     string                  `json:"user_email"`
	Status        string                  `json:"status"`
	TotalCents    int64                   `json:"total_cents"`
	DiscountCents int64                   `json:"discount_cents"`
	ShippingCents int64                   `json:"shipping_cents"`
	TaxCents      int64                   `json:"tax_cents"`
	FinalCents    int64                   `json:"final_cents"`
	Note          *string                 `json:"note,omitempty"`
	Items         []OrderLineItemResponse `json:"items"`
	CreatedAt     int64                   `json:"created_at"`
	UpdatedAt     int64                   `json:"updated_at"`
}

type OrderLineItemResponse struct {
	ID             string  `json:"id"`
	VariantID      string  `json:"variant_id"`
	ProductName    string  `json:"product_name"`
	SKU            string  `json:"sku"`
	ImageURL       *string `json:"image_url,omitempty"`
	SizeLabel      *string `json:"size_label,omitempty"`
	ColorLabel     *string `json:"color_label,omitempty"`
	Quantity       int32   `json:"quantity"`
	PriceCents     int64   `json:"price_cents"`
	SalePriceCents int64   `json:"sale_price_cents"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	items := make([]OrderLineItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = OrderLineItemResponse{
			ID:             it.ID.String(),
			VariantID:      it.VariantID.String(),
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			ImageURL:       it.ImageURL,
			SizeLabel:      it.SizeLabel,
			ColorLabel:     it.ColorLabel,
			Quantity:       it.Quantity,
			PriceCents:     it.PriceCents,
			SalePriceCents: it.SalePriceCents,
		}
	}
	return &OrderResponse{
		ID:            v.ID.String(),
		Code:          v.Code,
		UserID:        v.UserID.String(),
		UserEmail:     v.UserEmail,
		Status:        v.Status,
		TotalCents:    v.TotalCents,
		DiscountCents: v.DiscountCents,
		ShippingCents: v.ShippingCents,
		TaxCents:      v.TaxCents,
		FinalCents:    v.FinalCents,
		Note:          v.Note,
		Items:         items,
		CreatedAt:     v.CreatedAt.Unix(),
		UpdatedAt:     v.UpdatedAt.Unix(),
	}
}

type OrderListItemResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Status     string `json:"status"`
	FinalCents int64  `json:"final_cents"`
	ItemCount  int64  `json:"item_count"`
	CreatedAt  int64  `json:"created_at"`
}

func FromOrderList(items []*queries.OrderListItem) []*OrderListItemResponse {
	res := make([]*OrderListItemResponse, len(items))
	for i, it := range items {
		res[i] = &OrderListItemResponse{
			ID:         it.ID.String(),
			Code:       it.Code,
			Status:     it.Status,
			FinalCents: it.FinalCents,
			ItemCount:  it.ItemCount,
			CreatedAt:  it.CreatedAt.Unix(),
		}
	}
	return res
}

type OrderHistoryResponse struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	ActorID   *string `json:"actor_id,omitempty"`
	Note      *string `json:"note,omitempty"`
	CreatedAt int64   `json:"created_at"`
}

func FromOrderHistory(entries []*queries.OrderHistoryView) []*OrderHistoryResponse {
	res := make([]*OrderHistoryResponse, len(entries))
	for i, e := range entries {
		var actorID *string
		if e.ActorID != nil {
			s := e.ActorID.String()
			actorID = &s
		}
		res[i] = &OrderHistoryResponse{
			ID:        e.ID.String(),
			Status:    e.Status,
			ActorID:   actorID,
			Note:      e.Note,
			CreatedAt: e.CreatedAt.Unix(),
		}
	}
	return res
}
