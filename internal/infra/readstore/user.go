package readstore

import (
	"context"

	"github.com/google/uuid"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
	"shop-order-engine/internal/pkg/pgconv"
	"shop-order-engine/internal/usecase/queries"
)

const (
	findUserByIDSQL = `
		SELECT id, email, is_staff, is_active FROM users WHERE id = $1`

	findUserByEmailSQL = `
		SELECT id, email, is_staff, is_active, password_hash
		FROM users
		WHERE email = $1 AND is_active = TRUE`
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var view queries.AuthorizedUserView
	err := s.db.QueryRow(ctx, findUserByIDSQL, id).Scan(&view.ID, &view.Email, &view.IsStaff, &view.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &view, nil
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		view queries.AuthorizedUserView
		hash string
	)
	err := s.db.QueryRow(ctx, findUserByEmailSQL, email).Scan(&view.ID, &view.Email, &view.IsStaff, &view.IsActive, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &view, hash, nil
}
