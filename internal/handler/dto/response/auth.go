package response

import (
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"
)

type LoginResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	IsStaff     bool   `json:"is_staff"`
}

func FromLoginResult(r *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		UserID:      r.UserID.String(),
		AccessToken: r.AccessToken,
		IsStaff:     r.IsStaff,
	}
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
	IsActive bool   `json:"is_active"`
}

func FromUserView(v *queries.AuthorizedUserView) *UserResponse {
	return &UserResponse{
		ID:       v.ID.String(),
		Email:    v.Email,
		IsStaff:  v.IsStaff,
		IsActive: v.IsActive,
	}
}
