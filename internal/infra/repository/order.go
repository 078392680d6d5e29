package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shop-order-engine/internal/domain/order"
	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
	"shop-order-engine/internal/pkg/pgconv"
)

const (
	insertOrderSQL = `
		INSERT INTO orders (
			user_id, delivery_address_id, payment_method_id, order_code, status,
			total_amount, discount_amount, shipping_fee, tax_amount, final_amount,
			customer_note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	insertOrderItemSQL = `
		INSERT INTO order_items (
			order_id, variant_id, product_name, sku, image_url, size_label,
			color_label, quantity, price_at_purchase, sale_price_at_purchase
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	orderCodeExistsSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE order_code = $1)`

	findOrderForUpdateSQL = `
		SELECT id, order_code, user_id, status, total_amount, discount_amount,
			shipping_fee, tax_amount, final_amount, delivery_address_id,
			payment_method_id, customer_note, created_at, updated_at
		FROM orders WHERE id = $1
		FOR UPDATE`

	updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`

	insertHistorySQL = `
		INSERT INTO order_history (order_id, status, staff_id, note)
		VALUES ($1, $2, $3, $4)`

	insertCancellationSQL = `
		INSERT INTO cancelled_orders (order_id, cancelled_by, reason)
		VALUES ($1, $2, $3)`

	insertReturnSQL = `
		INSERT INTO returned_orders (order_id, general_reason, total_refund, total_items)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	insertReturnItemSQL = `
		INSERT INTO returned_order_items (returned_order_id, order_item_id, quantity, refund_amount)
		VALUES ($1, $2, $3, $4)`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, dbtx db.DBTX, o *order.Order, items []order.LineItem) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertOrderSQL,
		o.UserID(),
		pgconv.UUIDPtrToPgtype(o.DeliveryAddressID()),
		o.PaymentMethodID(),
		o.Code(),
		o.Status().String(),
		o.TotalCents(),
		o.DiscountCents(),
		o.ShippingCents(),
		o.TaxCents(),
		o.FinalCents(),
		pgconv.StringPtrToPgtype(o.Note()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert order", err, infra.KindFromPgError(err))
	}

	for _, item := range items {
		_, err := dbtx.Exec(ctx, insertOrderItemSQL,
			id,
			item.VariantID,
			item.ProductName,
			item.SKU,
			pgconv.StringPtrToPgtype(item.ImageURL),
			pgconv.StringPtrToPgtype(item.SizeLabel),
			pgconv.StringPtrToPgtype(item.ColorLabel),
			item.Quantity,
			item.PriceCents,
			item.SalePriceCents,
		)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to insert order item", err, infra.KindFromPgError(err))
		}
	}
	return id, nil
}

func (r *OrderRepository) CodeExists(ctx context.Context, dbtx db.DBTX, code string) (bool, error) {
	var exists bool
	if err := dbtx.QueryRow(ctx, orderCodeExistsSQL, code).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check order code", err)
	}
	return exists, nil
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*order.Order, error) {
	var (
		orderID              uuid.UUID
		code                 string
		userID               uuid.UUID
		status               string
		amounts              order.Amounts
		addressID            *uuid.UUID
		paymentMethodID      uuid.UUID
		note                 *string
		createdAt, updatedAt time.Time
	)
	err := dbtx.QueryRow(ctx, findOrderForUpdateSQL, id).Scan(
		&orderID, &code, &userID, &status, &amounts.TotalCents, &amounts.DiscountCents,
		&amounts.ShippingCents, &amounts.TaxCents, &amounts.FinalCents, &addressID,
		&paymentMethodID, &note, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order for update", err)
	}

	parsed, err := order.ParseStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("order has unknown status", err)
	}
	return order.ReconstructOrder(
		orderID, code, userID, parsed, amounts,
		addressID, paymentMethodID, note, createdAt, updatedAt,
	), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, status order.Status) error {
	tag, err := dbtx.Exec(ctx, updateOrderStatusSQL, orderID, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err, infra.KindFromPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) AppendHistory(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, status order.Status, actorID *uuid.UUID, note *string) error {
	_, err := dbtx.Exec(ctx, insertHistorySQL,
		orderID,
		status.String(),
		pgconv.UUIDPtrToPgtype(actorID),
		pgconv.StringPtrToPgtype(note),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append order history", err, infra.KindFromPgError(err))
	}
	return nil
}

func (r *OrderRepository) CreateCancellation(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, cancelledBy *uuid.UUID, reason *string) error {
	_, err := dbtx.Exec(ctx, insertCancellationSQL, orderID, pgconv.UUIDPtrToPgtype(cancelledBy), pgconv.StringPtrToPgtype(reason))
	if err != nil {
		return infra.WrapRepoErr("failed to record cancellation", err, infra.KindFromPgError(err))
	}
	return nil
}

func (r *OrderRepository) CreateReturn(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, lines []order.ReturnLine, totalRefundCents int64, reason *string) (uuid.UUID, error) {
	var totalItems int32
	for _, line := range lines {
		totalItems += line.Quantity
	}

	var returnID uuid.UUID
	err := dbtx.QueryRow(ctx, insertReturnSQL,
		orderID,
		pgconv.StringPtrToPgtype(reason),
		totalRefundCents,
		totalItems,
	).Scan(&returnID)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create return record", err, infra.KindFromPgError(err))
	}

	for _, line := range lines {
		_, err := dbtx.Exec(ctx, insertReturnItemSQL, returnID, line.LineItemID, line.Quantity, line.RefundCents)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create return item", err, infra.KindFromPgError(err))
		}
	}
	return returnID, nil
}

func (r *OrderRepository) Delete(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, deleteOrderSQL, orderID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete order", err, infra.KindFromPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}
