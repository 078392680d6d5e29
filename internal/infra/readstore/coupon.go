package readstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
	"shop-order-engine/internal/pkg/pgconv"
	"shop-order-engine/internal/usecase/queries"
)

const (
	findCouponViewSQL = `
		SELECT id, code, discount_type, value_cents, max_discount_cents,
			min_order_cents, starts_at, ends_at, is_active
		FROM coupons
		WHERE UPPER(code) = UPPER($1)`

	findActiveCouponsSQL = `
		SELECT id, code, discount_type, value_cents, max_discount_cents,
			min_order_cents, starts_at, ends_at, is_active
		FROM coupons
		WHERE is_active = TRUE AND starts_at <= now() AND ends_at >= now()
		ORDER BY code
		LIMIT $1`
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

func (s *CouponReadStore) FindByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	rows, err := s.db.Query(ctx, findCouponViewSQL, code)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}

	view, err := pgx.CollectExactlyOneRow(rows, scanCouponView)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan coupon", err)
	}
	return view, nil
}

func (s *CouponReadStore) FindActive(ctx context.Context, limit int32) ([]*queries.CouponView, error) {
	rows, err := s.db.Query(ctx, findActiveCouponsSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active coupons", err)
	}

	views, err := pgx.CollectRows(rows, scanCouponView)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan active coupons", err)
	}
	return views, nil
}

func scanCouponView(row pgx.CollectableRow) (*queries.CouponView, error) {
	var view queries.CouponView
	err := row.Scan(
		&view.ID, &view.Code, &view.Type, &view.Value, &view.MaxDiscountCents,
		&view.MinOrderCents, &view.ValidFrom, &view.ValidUntil, &view.IsActive,
	)
	return &view, err
}
