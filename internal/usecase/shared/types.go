package shared

import (
	"time"

	"github.com/google/uuid"
)

// CartLineSnapshot joins one cart line with the current catalog state of its
// variant. Captured once at checkout; the snapshot fields feed the immutable
// order line items.
type CartLineSnapshot struct {
	CartLineID       uuid.UUID
	VariantID        uuid.UUID
	Quantity         int32
	ListPriceCents   int64
	SalePriceCents   int64
	Stock            int32
	VariantActive    bool
	ProductPublished bool
	ProductName      string
	SKU              string
	ImageURL         *string
	SizeLabel        *string
	ColorLabel       *string
}

type AddressSnapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

type PaymentMethodSnapshot struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

type VariantSnapshot struct {
	ID               uuid.UUID
	ProductName      string
	Stock            int32
	IsActive         bool
	ProductPublished bool
}

type IdempotencyRecord struct {
	Key           uuid.UUID
	UserID        uuid.UUID
	Status        string
	RequestHash   string
	ResultOrderID *uuid.UUID
	ExpiresAt     time.Time
}
