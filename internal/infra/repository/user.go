package repository

import (
	"context"

	"github.com/google/uuid"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
)

const (
	insertUserSQL = `
		INSERT INTO users (email, password_hash, is_staff)
		VALUES ($1, $2, $3)
		RETURNING id`

	updateLastLoginSQL = `UPDATE users SET last_login_at = now() WHERE id = $1`
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, dbtx db.DBTX, email, passwordHash string, isStaff bool) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertUserSQL, email, passwordHash, isStaff).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err, infra.KindFromPgError(err))
	}
	return id, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, updateLastLoginSQL, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}
