//go:build unit

package order_test

import (
	"regexp"
	"testing"
	"time"

	"shop-order-engine/internal/domain/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWithStatus(s order.Status) *order.Order {
	now := time.Now()
	return order.ReconstructOrder(
		uuid.New(), "ORD-20260830120000-ABC123", uuid.New(), s,
		order.Amounts{}, nil, uuid.New(), nil, now, now,
	)
}

func TestStatusSequence(t *testing.T) {
	tests := []struct {
		name  string
		from  order.Status
		want  order.Status
		errIs error
	}{
		{name: "pending advances to packed", from: order.StatusPending, want: order.StatusPacked},
		{name: "packed advances to delivering", from: order.StatusPacked, want: order.StatusDelivering},
		{name: "delivering advances to delivered", from: order.StatusDelivering, want: order.StatusDelivered},
		{name: "delivered cannot advance", from: order.StatusDelivered, errIs: order.ErrNoFurtherAdvance},
		{name: "cancelled cannot advance", from: order.StatusCancelled, errIs: order.ErrNoFurtherAdvance},
		{name: "returned cannot advance", from: order.StatusReturned, errIs: order.ErrNoFurtherAdvance},
		{name: "unknown status", from: order.Status("shipped"), errIs: order.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Next()
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCancel(t *testing.T) {
	for _, s := range []order.Status{order.StatusPending, order.StatusPacked, order.StatusDelivering} {
		t.Run("cancellable from "+s.String(), func(t *testing.T) {
			o := orderWithStatus(s)
			require.NoError(t, o.Cancel())
			assert.Equal(t, order.StatusCancelled, o.Status())
		})
	}

	for _, s := range []order.Status{order.StatusDelivered, order.StatusCancelled, order.StatusReturned} {
		t.Run("not cancellable from "+s.String(), func(t *testing.T) {
			o := orderWithStatus(s)
			assert.ErrorIs(t, o.Cancel(), order.ErrNotCancellable)
			assert.Equal(t, s, o.Status())
		})
	}
}

func TestBuildReturn(t *testing.T) {
	lineID := uuid.New()
	variantID := uuid.New()
	items := []order.LineItem{
		{
			ID:             lineID,
			VariantID:      variantID,
			ProductName:    "Basic Tee",
			Quantity:       3,
			PriceCents:     100_000,
			SalePriceCents: 80_000,
		},
	}

	t.Run("refund uses effective purchase price", func(t *testing.T) {
		o := orderWithStatus(order.StatusDelivered)
		lines, total, err := o.BuildReturn(items, []order.ReturnItem{{LineItemID: lineID, Quantity: 2}})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, variantID, lines[0].VariantID)
		assert.Equal(t, int64(160_000), lines[0].RefundCents)
		assert.Equal(t, int64(160_000), total)
	})

	t.Run("only delivered orders are returnable", func(t *testing.T) {
		o := orderWithStatus(order.StatusDelivering)
		_, _, err := o.BuildReturn(items, []order.ReturnItem{{LineItemID: lineID, Quantity: 1}})
		assert.ErrorIs(t, err, order.ErrNotReturnable)
	})

	t.Run("quantity above ordered amount rejected", func(t *testing.T) {
		o := orderWithStatus(order.StatusDelivered)
		_, _, err := o.BuildReturn(items, []order.ReturnItem{{LineItemID: lineID, Quantity: 4}})
		assert.ErrorIs(t, err, order.ErrReturnQuantityExceeded)
	})

	t.Run("unknown line item rejected", func(t *testing.T) {
		o := orderWithStatus(order.StatusDelivered)
		_, _, err := o.BuildReturn(items, []order.ReturnItem{{LineItemID: uuid.New(), Quantity: 1}})
		assert.ErrorIs(t, err, order.ErrUnknownLineItem)
	})

	t.Run("empty request rejected", func(t *testing.T) {
		o := orderWithStatus(order.StatusDelivered)
		_, _, err := o.BuildReturn(items, nil)
		assert.ErrorIs(t, err, order.ErrEmptyReturn)
	})
}

func TestGenerateCode(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	code, err := order.GenerateCode("ORD", now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD-20250314092653-[0-9A-F]{6}$`), code)

	other, err := order.GenerateCode("ORD", now)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}
