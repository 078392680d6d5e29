package queries

import (
	"context"

	"github.com/google/uuid"

	"shop-order-engine/internal/pkg/errs"
)

var ErrCartQuery = errs.New("cart query failed")

// CartSummaryView pairs the lines with their current list-price total so the
// storefront can show a live subtotal. This is informational; checkout
// recomputes everything authoritatively.
type CartSummaryView struct {
	Lines          []*CartLineView `json:"lines"`
	SubtotalCents  int64           `json:"subtotal_cents"`
	PromotionCents int64           `json:"promotion_cents"`
}

type CartQueries interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartSummaryView, error)
}

type CartReadStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*CartLineView, error)
}

type cartQueriesImpl struct {
	readStore CartReadStore
}

func NewCartQueries(readStore CartReadStore) CartQueries {
	return &cartQueriesImpl{readStore: readStore}
}

func (q *cartQueriesImpl) GetCart(ctx context.Context, userID uuid.UUID) (*CartSummaryView, error) {
	lines, err := q.readStore.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrCartQuery)
	}

	summary := &CartSummaryView{Lines: lines}
	for _, l := range lines {
		qty := int64(l.Quantity)
		summary.SubtotalCents += qty * l.ListPriceCents
		if l.SalePriceCents > 0 && l.SalePriceCents < l.ListPriceCents {
			summary.PromotionCents += qty * (l.ListPriceCents - l.SalePriceCents)
		}
	}
	return summary, nil
}
