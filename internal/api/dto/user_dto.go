package dto

import (
	"time"

	"github.com/spec-kit/event-reservation/internal/domain"
)

// SignUpRequest payload for self-registration.
type SignUpRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"firstname"`
	LastName  string      `json:"lastname"`
	Role      domain.Role `json:"role"`
}

// SignUpResponse is returned after registration.
type SignUpResponse struct {
	UserID string `json:"userId"`
}

// SignInRequest payload for login.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CurrentUserResponse describes the caller.
type CurrentUserResponse struct {
	ID        string      `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
}

// AdminUserRequest creates or updates an account. Absent fields are left
// unchanged on update.
type AdminUserRequest struct {
	Email     *string      `json:"email"`
	Password  *string      `json:"password"`
	FirstName *string      `json:"firstName"`
	LastName  *string      `json:"lastName"`
	Role      *domain.Role `json:"role"`
}

// UserResponse is the admin view of an account. The password hash is never serialized.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
