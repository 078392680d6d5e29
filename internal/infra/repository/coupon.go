package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domcoupon "shop-order-engine/internal/domain/coupon"
	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
	"shop-order-engine/internal/pkg/pgconv"
)

const (
	findCouponForUpdateSQL = `
		SELECT id, code, discount_type, value_cents, max_discount_cents,
			min_order_cents, usage_limit_per_coupon, usage_limit_per_user,
			current_usage, starts_at, ends_at, is_active
		FROM coupons
		WHERE UPPER(code) = UPPER($1)
		FOR UPDATE`

	countUsagesByUserSQL = `
		SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`

	// Guarded increment: the cap is enforced in the statement itself, not by
	// the caller's earlier read.
	incrementUsageSQL = `
		UPDATE coupons
		SET current_usage = current_usage + 1, updated_at = now()
		WHERE id = $1
		  AND (usage_limit_per_coupon IS NULL OR current_usage < usage_limit_per_coupon)`

	insertUsageSQL = `
		INSERT INTO coupon_usages (user_id, coupon_id, order_id)
		VALUES ($1, $2, $3)`
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

func (r *CouponRepository) FindByCodeForUpdate(ctx context.Context, dbtx db.DBTX, code string) (*domcoupon.Coupon, error) {
	rows, err := dbtx.Query(ctx, findCouponForUpdateSQL, code)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	cpn, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan coupon", err)
	}
	return cpn, nil
}

func (r *CouponRepository) CountUsagesByUser(ctx context.Context, dbtx db.DBTX, couponID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbtx.QueryRow(ctx, countUsagesByUserSQL, couponID, userID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count coupon usages", err)
	}
	return count, nil
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, dbtx db.DBTX, couponID uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, incrementUsageSQL, couponID)
	if err != nil {
		return infra.WrapRepoErr("failed to increment coupon usage", err, infra.KindFromPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon usage cap reached", nil, infra.KindConflict)
	}
	return nil
}

func (r *CouponRepository) InsertUsage(ctx context.Context, dbtx db.DBTX, userID, couponID, orderID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, insertUsageSQL, userID, couponID, orderID)
	if err != nil {
		return infra.WrapRepoErr("failed to insert coupon usage", err, infra.KindFromPgError(err))
	}
	return nil
}

func scanCoupon(row pgx.CollectableRow) (*domcoupon.Coupon, error) {
	var (
		id                    uuid.UUID
		rawCode               string
		rawType               string
		value                 int64
		maxDiscountCents      *int64
		minOrderCents         *int64
		usageLimitPerCoupon   *int32
		usageLimitPerUser     *int32
		currentUsage          int32
		validFrom, validUntil time.Time
		isActive              bool
	)
	err := row.Scan(
		&id, &rawCode, &rawType, &value, &maxDiscountCents,
		&minOrderCents, &usageLimitPerCoupon, &usageLimitPerUser,
		&currentUsage, &validFrom, &validUntil, &isActive,
	)
	if err != nil {
		return nil, err
	}

	code, err := domcoupon.NewCode(rawCode)
	if err != nil {
		return nil, err
	}
	return domcoupon.ReconstructCoupon(
		id, code, domcoupon.DiscountType(rawType), value,
		maxDiscountCents, minOrderCents,
		usageLimitPerCoupon, usageLimitPerUser,
		currentUsage, validFrom, validUntil, isActive,
	), nil
}
