package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domcoupon "shop-order-engine/internal/domain/coupon"
	"shop-order-engine/internal/domain/order"
	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
	"shop-order-engine/internal/pkg/pgconv"
	"shop-order-engine/internal/usecase/shared"
)

const (
	cartLinesForCheckoutSQL = `
		SELECT ci.id, ci.variant_id, ci.quantity,
			pv.price_cents, pv.sale_price_cents, pv.stock, pv.is_active,
			p.is_published, p.name, pv.sku, pv.image_url, pv.size_label, pv.color_label
		FROM cart_items ci
		JOIN product_variants pv ON pv.id = ci.variant_id
		JOIN products p ON p.id = pv.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at`

	cartLinesSubsetForCheckoutSQL = `
		SELECT ci.id, ci.variant_id, ci.quantity,
			pv.price_cents, pv.sale_price_cents, pv.stock, pv.is_active,
			p.is_published, p.name, pv.sku, pv.image_url, pv.size_label, pv.color_label
		FROM cart_items ci
		JOIN product_variants pv ON pv.id = ci.variant_id
		JOIN products p ON p.id = pv.product_id
		WHERE ci.user_id = $1 AND ci.id = ANY($2)
		ORDER BY ci.created_at`

	addressByIDSQL = `
		SELECT id, user_id FROM delivery_addresses WHERE id = $1 AND user_id = $2`

	paymentMethodByIDSQL = `
		SELECT id, method_name, is_active FROM payment_methods WHERE id = $1`

	variantByIDSQL = `
		SELECT pv.id, p.name, pv.stock, pv.is_active, p.is_published
		FROM product_variants pv
		JOIN products p ON p.id = pv.product_id
		WHERE pv.id = $1`

	couponByCodeSQL = `
		SELECT id, code, discount_type, value_cents, max_discount_cents,
			min_order_cents, usage_limit_per_coupon, usage_limit_per_user,
			current_usage, starts_at, ends_at, is_active
		FROM coupons
		WHERE UPPER(code) = UPPER($1)`

	couponUsageCountSQL = `
		SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`

	orderByIDSQL = `
		SELECT id, order_code, user_id, status, total_amount, discount_amount,
			shipping_fee, tax_amount, final_amount, delivery_address_id,
			payment_method_id, customer_note, created_at, updated_at
		FROM orders
		WHERE id = $1`

	orderLineItemsSQL = `
		SELECT id, order_id, variant_id, product_name, sku, image_url,
			size_label, color_label, quantity, price_at_purchase, sale_price_at_purchase
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at`

	idempotencyByKeySQL = `
		SELECT key, user_id, status, request_hash, result_order_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`
)

// CommandReads serves the point lookups command handlers need before and
// inside a checkout transaction. It runs against whatever DBTX it was built
// with, so the same queries see transaction-local state when used via Tx.Reads().
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{db: dbtx}
}

func (s *CommandReads) CartLinesForCheckout(ctx context.Context, userID uuid.UUID, cartLineIDs []uuid.UUID) ([]shared.CartLineSnapshot, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if len(cartLineIDs) == 0 {
		rows, err = s.db.Query(ctx, cartLinesForCheckoutSQL, userID)
	} else {
		rows, err = s.db.Query(ctx, cartLinesSubsetForCheckoutSQL, userID, cartLineIDs)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query cart lines", err)
	}

	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.CartLineSnapshot, error) {
		var l shared.CartLineSnapshot
		err := row.Scan(
			&l.CartLineID, &l.VariantID, &l.Quantity,
			&l.ListPriceCents, &l.SalePriceCents, &l.Stock, &l.VariantActive,
			&l.ProductPublished, &l.ProductName, &l.SKU, &l.ImageURL, &l.SizeLabel, &l.ColorLabel,
		)
		return l, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan cart lines", err)
	}
	return lines, nil
}

func (s *CommandReads) AddressByID(ctx context.Context, id, userID uuid.UUID) (*shared.AddressSnapshot, error) {
	var a shared.AddressSnapshot
	err := s.db.QueryRow(ctx, addressByIDSQL, id, userID).Scan(&a.ID, &a.UserID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("delivery address not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find delivery address", err)
	}
	return &a, nil
}

func (s *CommandReads) PaymentMethodByID(ctx context.Context, id uuid.UUID) (*shared.PaymentMethodSnapshot, error) {
	var pm shared.PaymentMethodSnapshot
	err := s.db.QueryRow(ctx, paymentMethodByIDSQL, id).Scan(&pm.ID, &pm.Name, &pm.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment method not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment method", err)
	}
	return &pm, nil
}

func (s *CommandReads) VariantByID(ctx context.Context, id uuid.UUID) (*shared.VariantSnapshot, error) {
	var v shared.VariantSnapshot
	err := s.db.QueryRow(ctx, variantByIDSQL, id).Scan(
		&v.ID, &v.ProductName, &v.Stock, &v.IsActive, &v.ProductPublished,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("variant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find variant", err)
	}
	return &v, nil
}

func (s *CommandReads) CouponByCode(ctx context.Context, code string) (*domcoupon.Coupon, error) {
	rows, err := s.db.Query(ctx, couponByCodeSQL, code)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query coupon", err)
	}

	cpn, err := pgx.CollectExactlyOneRow(rows, scanDomainCoupon)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan coupon", err)
	}
	return cpn, nil
}

func (s *CommandReads) CouponUsageCount(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, couponUsageCountSQL, couponID, userID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count coupon usages", err)
	}
	return count, nil
}

func (s *CommandReads) OrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var (
		orderID              uuid.UUID
		code                 string
		userID               uuid.UUID
		rawStatus            string
		amounts              order.Amounts
		addressID            *uuid.UUID
		paymentMethodID      uuid.UUID
		note                 *string
		createdAt, updatedAt time.Time
	)
	err := s.db.QueryRow(ctx, orderByIDSQL, id).Scan(
		&orderID, &code, &userID, &rawStatus, &amounts.TotalCents, &amounts.DiscountCents,
		&amounts.ShippingCents, &amounts.TaxCents, &amounts.FinalCents, &addressID,
		&paymentMethodID, &note, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid order status in storage", err)
	}
	return order.ReconstructOrder(
		orderID, code, userID, status, amounts,
		addressID, paymentMethodID, note, createdAt, updatedAt,
	), nil
}

func (s *CommandReads) OrderLineItems(ctx context.Context, orderID uuid.UUID) ([]order.LineItem, error) {
	rows, err := s.db.Query(ctx, orderLineItemsSQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query order items", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.LineItem, error) {
		var li order.LineItem
		err := row.Scan(
			&li.ID, &li.OrderID, &li.VariantID, &li.ProductName, &li.SKU, &li.ImageURL,
			&li.SizeLabel, &li.ColorLabel, &li.Quantity, &li.PriceCents, &li.SalePriceCents,
		)
		return li, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order items", err)
	}
	return items, nil
}

func (s *CommandReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var rec shared.IdempotencyRecord
	err := s.db.QueryRow(ctx, idempotencyByKeySQL, key, userID).Scan(
		&rec.Key, &rec.UserID, &rec.Status, &rec.RequestHash, &rec.ResultOrderID, &rec.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}
	return &rec, nil
}

func scanDomainCoupon(row pgx.CollectableRow) (*domcoupon.Coupon, error) {
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
