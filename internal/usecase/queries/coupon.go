package queries

import (
	"context"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/pkg/errs"
)

var (
	ErrCouponNotFound = errs.New("coupon not found")
	ErrCouponQuery    = errs.New("coupon query failed")
)

type CouponQueries interface {
	GetByCode(ctx context.Context, code string) (*CouponView, error)
	ListActive(ctx context.Context, limit int) ([]*CouponView, error)
}

type CouponReadStore interface {
	FindByCode(ctx context.Context, code string) (*CouponView, error)
	FindActive(ctx context.Context, limit int32) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
}

func NewCouponQueries(readStore CouponReadStore) CouponQueries {
	return &couponQueriesImpl{readStore: readStore}
}

func (q *couponQueriesImpl) GetByCode(ctx context.Context, code string) (*CouponView, error) {
	view, err := q.readStore.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrCouponQuery)
	}
	return view, nil
}

func (q *couponQueriesImpl) ListActive(ctx context.Context, limit int) ([]*CouponView, error) {
	limit = ValidateLimit(limit)
	views, err := q.readStore.FindActive(ctx, int32(limit))
	if err != nil {
		return nil, errs.Mark(err, ErrCouponQuery)
	}
	return views, nil
}
