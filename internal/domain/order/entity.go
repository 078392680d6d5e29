package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNegativeFinalAmount    = errors.New("final amount cannot be negative")
	ErrReturnQuantityExceeded = errors.New("return quantity exceeds ordered quantity")
	ErrEmptyReturn            = errors.New("return must contain at least one item")
	ErrUnknownLineItem        = errors.New("returned line item does not belong to this order")
)

type Order struct {
	id                uuid.UUID
	code              string
	userID            uuid.UUID
	status            Status
	totalCents        int64
	discountCents     int64
	shippingCents     int64
	taxCents          int64
	finalCents        int64
	deliveryAddressID *uuid.UUID
	paymentMethodID   uuid.UUID
	note              *string
	createdAt         time.Time
	updatedAt         time.Time
}

// Amounts carries the priced totals an order is created with.
type Amounts struct {
	TotalCents    int64
	DiscountCents int64
	ShippingCents int64
	TaxCents      int64
	FinalCents    int64
}

// NewOrder builds an unsaved order. The id is assigned by the store on
// insert, so it stays zero here.
func NewOrder(
	code string,
	userID uuid.UUID,
	status Status,
	amounts Amounts,
	deliveryAddressID *uuid.UUID,
	paymentMethodID uuid.UUID,
	note *string,
) (*Order, error) {
	if amounts.FinalCents < 0 {
		return nil, ErrNegativeFinalAmount
	}
	return &Order{
		code:              code,
		userID:            userID,
		status:            status,
		totalCents:        amounts.TotalCents,
		discountCents:     amounts.DiscountCents,
		shippingCents:     amounts.ShippingCents,
		taxCents:          amounts.TaxCents,
		finalCents:        amounts.FinalCents,
		deliveryAddressID: deliveryAddressID,
		paymentMethodID:   paymentMethodID,
		note:              note,
	}, nil
}

// ReconstructOrder rebuilds an order from persisted state without
// re-validating it.
func ReconstructOrder(
	id uuid.UUID,
	code string,
	userID uuid.UUID,
	status Status,
	amounts Amounts,
	deliveryAddressID *uuid.UUID,
	paymentMethodID uuid.UUID,
	note *string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:                id,
		code:              code,
		userID:            userID,
		status:            status,
		totalCents:        amounts.TotalCents,
		discountCents:     amounts.DiscountCents,
		shippingCents:     amounts.ShippingCents,
		taxCents:          amounts.TaxCents,
		finalCents:        amounts.FinalCents,
		deliveryAddressID: deliveryAddressID,
		paymentMethodID:   paymentMethodID,
		note:              note,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (o *Order) ID() uuid.UUID                 { return o.id }
func (o *Order) Code() string                  { return o.code }
func (o *Order) UserID() uuid.UUID             { return o.userID }
func (o *Order) Status() Status                { return o.status }
func (o *Order) TotalCents() int64             { return o.totalCents }
func (o *Order) DiscountCents() int64          { return o.discountCents }
func (o *Order) ShippingCents() int64          { return o.shippingCents }
func (o *Order) TaxCents() int64               { return o.taxCents }
func (o *Order) FinalCents() int64             { return o.finalCents }
func (o *Order) DeliveryAddressID() *uuid.UUID { return o.deliveryAddressID }
func (o *Order) PaymentMethodID() uuid.UUID    { return o.paymentMethodID }
func (o *Order) Note() *string                 { return o.note }
func (o *Order) CreatedAt() time.Time          { return o.createdAt }
func (o *Order) UpdatedAt() time.Time          { return o.updatedAt }

// LineItem is the immutable snapshot of one variant at order-creation time.
// Catalog edits after checkout never change these values.
type LineItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	VariantID      uuid.UUID
	ProductName    string
	SKU            string
	ImageURL       *string
	SizeLabel      *string
	ColorLabel     *string
	Quantity       int32
	PriceCents     int64
	SalePriceCents int64
}

func (li LineItem) EffectiveUnitPriceCents() int64 {
	if li.SalePriceCents > 0 {
		return li.SalePriceCents
	}
	return li.PriceCents
}

// Advance moves the order one step along the processing sequence.
func (o *Order) Advance() (Status, error) {
	next, err := o.status.Next()
	if err != nil {
		return "", err
	}
	o.status = next
	return next, nil
}

// Cancel marks the order cancelled. Delivered and already-cancelled orders
// are rejected.
func (o *Order) Cancel() error {
	if !o.status.CanCancel() {
		return fmt.Errorf("%w: status %q", ErrNotCancellable, o.status)
	}
	o.status = StatusCancelled
	return nil
}

// ReturnItem names one line item and the quantity being sent back.
type ReturnItem struct {
	LineItemID uuid.UUID
	Quantity   int32
}

// ReturnLine is a validated return entry with its computed refund.
type ReturnLine struct {
	LineItemID  uuid.UUID
	VariantID   uuid.UUID
	Quantity    int32
	RefundCents int64
}

// BuildReturn validates a return request against the order's line items and
// computes the per-line refunds from the purchase-time effective prices.
// The order must be in delivered status.
func (o *Order) BuildReturn(items []LineItem, requested []ReturnItem) ([]ReturnLine, int64, error) {
	if !o.status.CanReturn() {
		return nil, 0, ErrNotReturnable
	}
	if len(requested) == 0 {
		return nil, 0, ErrEmptyReturn
	}

	byID := make(map[uuid.UUID]LineItem, len(items))
	for _, li := range items {
		byID[li.ID] = li
	}

	lines := make([]ReturnLine, 0, len(requested))
	var totalRefund int64
	for _, r := range requested {
		li, ok := byID[r.LineItemID]
		if !ok {
			return nil, 0, ErrUnknownLineItem
		}
		if r.Quantity <= 0 || r.Quantity > li.Quantity {
			return nil, 0, fmt.Errorf("%w: %s", ErrReturnQuantityExceeded, li.ProductName)
		}
		refund := int64(r.Quantity) * li.EffectiveUnitPriceCents()
		lines = append(lines, ReturnLine{
			LineItemID:  li.ID,
			VariantID:   li.VariantID,
			Quantity:    r.Quantity,
			RefundCents: refund,
		})
		totalRefund += refund
	}
	return lines, totalRefund, nil
}
