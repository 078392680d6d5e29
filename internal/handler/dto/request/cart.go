package request

import "github.com/google/uuid"

// Quantity states the desired final line quantity; zero removes the line.
type AddCartItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int32     `json:"quantity" binding:"gte=0"`
}

type UpdateCartItemRequest struct {
	Quantity int32 `json:"quantity" binding:"required,gt=0"`
}

type RemoveCartItemsRequest struct {
	CartLineIDs []uuid.UUID `json:"cart_line_ids" binding:"required,min=1"`
}
