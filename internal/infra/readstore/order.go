package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
	"shop-order-engine/internal/pkg/pgconv"
	"shop-order-engine/internal/usecase/queries"
)

const (
	findOrderViewSQL = `
		SELECT o.id, o.order_code, o.user_id, u.email, o.status,
			o.total_amount, o.discount_amount, o.shipping_fee, o.tax_amount,
			o.final_amount, o.customer_note, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`

	findOrderItemsSQL = `
		SELECT id, variant_id, product_name, sku, image_url, size_label,
			color_label, quantity, price_at_purchase, sale_price_at_purchase
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id`

	listOrdersFirstPageSQL = `
		SELECT o.id, o.order_code, o.status, o.final_amount,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count,
			o.created_at
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2`

	listOrdersAfterSQL = `
		SELECT o.id, o.order_code, o.status, o.final_amount,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count,
			o.created_at
		FROM orders o
		WHERE o.user_id = $1 AND (o.created_at, o.id) < ($3, $4)
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2`

	listAllOrdersFirstPageSQL = `
		SELECT o.id, o.order_code, o.status, o.final_amount,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count,
			o.created_at
		FROM orders o
		WHERE ($1::text IS NULL OR o.status::text = $1)
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2`

	listAllOrdersAfterSQL = `
		SELECT o.id, o.order_code, o.status, o.final_amount,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count,
			o.created_at
		FROM orders o
		WHERE ($1::text IS NULL OR o.status::text = $1)
		  AND (o.created_at, o.id) < ($3, $4)
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2`

	findOrderHistorySQL = `
		SELECT id, status, staff_id, note, changed_at
		FROM order_history
		WHERE order_id = $1
		ORDER BY changed_at, id`
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (s *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var view queries.OrderView
	err := s.db.QueryRow(ctx, findOrderViewSQL, id).Scan(
		&view.ID, &view.Code, &view.UserID, &view.UserEmail, &view.Status,
		&view.TotalCents, &view.DiscountCents, &view.ShippingCents,
		&view.TaxCents, &view.FinalCents, &view.Note, &view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	rows, err := s.db.Query(ctx, findOrderItemsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.OrderLineItemView, error) {
		var item queries.OrderLineItemView
		err := row.Scan(
			&item.ID, &item.VariantID, &item.ProductName, &item.SKU,
			&item.ImageURL, &item.SizeLabel, &item.ColorLabel,
			&item.Quantity, &item.PriceCents, &item.SalePriceCents,
		)
		return item, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order items", err)
	}
	view.Items = items
	return &view, nil
}

func (s *OrderReadStore) FindByUserIDPaginated(ctx context.Context, userID uuid.UUID, limit int32, after string) ([]*queries.OrderListItem, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == "" {
		rows, err = s.db.Query(ctx, listOrdersFirstPageSQL, userID, limit)
	} else {
		afterTime, afterID, decodeErr := queries.DecodeAfterCursor(after)
		if decodeErr != nil {
			return nil, infra.WrapRepoErr("invalid pagination cursor", decodeErr)
		}
		rows, err = s.db.Query(ctx, listOrdersAfterSQL, userID, limit, afterTime, afterID)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.OrderListItem, error) {
		var item queries.OrderListItem
		err := row.Scan(&item.ID, &item.Code, &item.Status, &item.FinalCents, &item.ItemCount, &item.CreatedAt)
		return &item, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order list", err)
	}
	return items, nil
}

func (s *OrderReadStore) FindAllPaginated(ctx context.Context, status *string, limit int32, after string) ([]*queries.OrderListItem, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == "" {
		rows, err = s.db.Query(ctx, listAllOrdersFirstPageSQL, status, limit)
	} else {
		afterTime, afterID, decodeErr := queries.DecodeAfterCursor(after)
		if decodeErr != nil {
			return nil, infra.WrapRepoErr("invalid pagination cursor", decodeErr)
		}
		rows, err = s.db.Query(ctx, listAllOrdersAfterSQL, status, limit, afterTime, afterID)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.OrderListItem, error) {
		var item queries.OrderListItem
		err := row.Scan(&item.ID, &item.Code, &item.Status, &item.FinalCents, &item.ItemCount, &item.CreatedAt)
		return &item, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order list", err)
	}
	return items, nil
}

func (s *OrderReadStore) FindHistory(ctx context.Context, orderID uuid.UUID) ([]*queries.OrderHistoryView, error) {
	rows, err := s.db.Query(ctx, findOrderHistorySQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order history", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.OrderHistoryView, error) {
		var entry queries.OrderHistoryView
		err := row.Scan(&entry.ID, &entry.Status, &entry.ActorID, &entry.Note, &entry.CreatedAt)
		return &entry, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order history", err)
	}
	return entries, nil
}
