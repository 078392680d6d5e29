package response

import (
	"shop-order-engine/internal/usecase/queries"
)

type CartLineResponse struct {
	ID             string  `json:"id"`
	VariantID      string  `json:"variant_id"`
	ProductName    string  `json:"product_name"`
	SKU            string  `json:"sku"`
	ImageURL       *string `json:"image_url,omitempty"`
	SizeLabel      *string `json:"size_label,omitempty"`
	ColorLabel     *string `json:"color_label,omitempty"`
	Quantity       int32   `json:"quantity"`
	ListPriceCents int64   `json:"list_price_cents"`
	SalePriceCents int64   `json:"sale_price_cents"`
	Stock          int32   `json:"stock"`
}

type CartSummaryResponse struct {
	Lines          []*CartLineResponse `json:"lines"`
	SubtotalCents  int64               `json:"subtotal_cents"`
	PromotionCents int64               `json:"promotion_cents"`
}

func FromCartSummary(v *queries.CartSummaryView) *CartSummaryResponse {
	lines := make([]*CartLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = &CartLineResponse{
			ID:             l.ID.String(),
			VariantID:      l.VariantID.String(),
			ProductName:    l.ProductName,
			SKU:            l.SKU,
			ImageURL:       l.ImageURL,
			SizeLabel:      l.SizeLabel,
			ColorLabel:     l.ColorLabel,
			Quantity:       l.Quantity,
			ListPriceCents: l.ListPriceCents,
			SalePriceCents: l.SalePriceCents,
			Stock:          l.Stock,
		}
	}
	return &CartSummaryResponse{
		Lines:          lines,
		SubtotalCents:  v.SubtotalCents,
		PromotionCents: v.PromotionCents,
	}
}
