package repository

import (
	"context"

	"github.com/google/uuid"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
)

const (
	// The WHERE clause re-checks availability at decrement time; a stale
	// pre-check can never drive stock negative.
	reserveStockSQL = `
		UPDATE product_variants
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`

	restockSQL = `
		UPDATE product_variants
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1`
)

type StockRepository struct{}

func NewStockRepository() *StockRepository {
	return &StockRepository{}
}

func (r *StockRepository) Reserve(ctx context.Context, dbtx db.DBTX, variantID uuid.UUID, quantity int32) error {
	tag, err := dbtx.Exec(ctx, reserveStockSQL, variantID, quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to reserve stock", err, infra.KindFromPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient stock", nil, infra.KindInsufficientStock)
	}
	return nil
}

func (r *StockRepository) Restock(ctx context.Context, dbtx db.DBTX, variantID uuid.UUID, quantity int32) error {
	tag, err := dbtx.Exec(ctx, restockSQL, variantID, quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to restock", err, infra.KindFromPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("variant not found", nil, infra.KindNotFound)
	}
	return nil
}
