package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
)

const (
	tryInsertIdempotencyKeySQL = `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, user_id) DO NOTHING`

	updateIdempotencyCompletedSQL = `
		UPDATE idempotency_keys
		SET status = 'completed', response_hash = $3, result_order_id = $4
		WHERE key = $1 AND user_id = $2`

	claimExpiredIdempotencyKeySQL = `
		UPDATE idempotency_keys
		SET request_hash = $3, status = 'processing', expires_at = $4, result_order_id = NULL
		WHERE key = $1 AND user_id = $2 AND status = 'processing' AND expires_at < now()`

	deleteExpiredIdempotencyKeysSQL = `
		DELETE FROM idempotency_keys WHERE expires_at < now() AND status = 'processing'`
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, tryInsertIdempotencyKeySQL, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err, infra.KindFromPgError(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, resultHash string, orderID uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, updateIdempotencyCompletedSQL, key, userID, resultHash, orderID)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err, infra.KindFromPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *IdempotencyRepository) ClaimExpiredKey(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error) {
	tag, err := dbtx.Exec(ctx, claimExpiredIdempotencyKeySQL, key, userID, requestHash, expiresAt)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to claim expired idempotency key", err, infra.KindFromPgError(err))
	}
	return tag.RowsAffected(), nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, dbtx db.DBTX) (int64, error) {
	tag, err := dbtx.Exec(ctx, deleteExpiredIdempotencyKeysSQL)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
