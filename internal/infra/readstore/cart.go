package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
	"shop-order-engine/internal/usecase/queries"
)

const findCartByUserSQL = `
	SELECT ci.id, ci.variant_id, p.name, v.sku, v.image_url, v.size_label,
		v.color_label, ci.quantity, v.price_cents, v.sale_price_cents, v.stock
	FROM cart_items ci
	JOIN product_variants v ON v.id = ci.variant_id
	JOIN products p ON p.id = v.product_id
	WHERE ci.user_id = $1
	ORDER BY ci.created_at, ci.id`

type CartReadStore struct {
	db db.DBTX
}

func NewCartReadStore(dbtx db.DBTX) *CartReadStore {
	return &CartReadStore{db: dbtx}
}

func (s *CartReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.CartLineView, error) {
	rows, err := s.db.Query(ctx, findCartByUserSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart", err)
	}

	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.CartLineView, error) {
		var line queries.CartLineView
		err := row.Scan(
			&line.ID, &line.VariantID, &line.ProductName, &line.SKU,
			&line.ImageURL, &line.SizeLabel, &line.ColorLabel,
			&line.Quantity, &line.ListPriceCents, &line.SalePriceCents,
			&line.Stock,
		)
		return &line, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan cart", err)
	}
	return lines, nil
}
