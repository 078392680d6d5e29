package repository

import (
	"context"

	"github.com/google/uuid"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
)

const (
	// An existing line is set to the new quantity, not accumulated; the
	// request states the desired line quantity outright.
	upsertCartItemSQL = `
		INSERT INTO cart_items (user_id, variant_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()
		RETURNING id`

	updateCartQuantitySQL = `
		UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE id = $2 AND user_id = $1`

	deleteCartItemByVariantSQL = `DELETE FROM cart_items WHERE user_id = $1 AND variant_id = $2`

	deleteCartItemsByIDsSQL = `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`

	deleteAllCartItemsSQL = `DELETE FROM cart_items WHERE user_id = $1`
)

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

func (r *CartRepository) Upsert(ctx context.Context, dbtx db.DBTX, userID, variantID uuid.UUID, quantity int32) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, upsertCartItemSQL, userID, variantID, quantity).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to upsert cart item", err, infra.KindFromPgError(err))
	}
	return id, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, dbtx db.DBTX, userID, cartLineID uuid.UUID, quantity int32) error {
	tag, err := dbtx.Exec(ctx, updateCartQuantitySQL, userID, cartLineID, quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to update cart quantity", err, infra.KindFromPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart line not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CartRepository) DeleteByVariant(ctx context.Context, dbtx db.DBTX, userID, variantID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, deleteCartItemByVariantSQL, userID, variantID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete cart item", err)
	}
	return nil
}

func (r *CartRepository) DeleteByIDs(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, cartLineIDs []uuid.UUID) error {
	_, err := dbtx.Exec(ctx, deleteCartItemsByIDsSQL, userID, cartLineIDs)
	if err != nil {
		return infra.WrapRepoErr("failed to delete cart items", err)
	}
	return nil
}

func (r *CartRepository) DeleteAll(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, deleteAllCartItemsSQL, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to clear cart", err)
	}
	return nil
}
