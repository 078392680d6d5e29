//go:build unit || e2e

package builder

import (
	reqdto "shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID       uuid.UUID
	Email    string
	Password string
	IsStaff  bool
	IsActive bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:       uuid.New(),
		Email:    "user@example.com",
		Password: "password123",
		IsStaff:  false,
		IsActive: true,
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) AsStaff() *UserBuilder {
	b.IsStaff = true
	return b
}

func (b *UserBuilder) AsInactive() *UserBuilder {
	b.IsActive = false
	return b
}

func (b *UserBuilder) BuildView() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       b.ID,
		Email:    b.Email,
		IsStaff:  b.IsStaff,
		IsActive: b.IsActive,
	}
}

func (b *UserBuilder) BuildLoginRequestDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    b.Email,
		Password: b.Password,
	}
}

func (b *UserBuilder) BuildRegisterRequestDTO() reqdto.RegisterRequest {
	return reqdto.RegisterRequest{
		Email:    b.Email,
		Password: b.Password,
	}
}

func (b *UserBuilder) BuildLoginResult(token string) *commands.LoginResult {
	return &commands.LoginResult{
		UserID:      b.ID,
		AccessToken: token,
		IsStaff:     b.IsStaff,
	}
}
