package dto

import (
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/model"
)

type RegisterRequest struct {
	FirstName    string `json:"first_name" binding:"required,max=255"`
	LastName     string `json:"last_name" binding:"required,max=255"`
	Email        string `json:"email" binding:"required,email,max=255"`
	MobileNumber string `json:"mobile_number" binding:"required,max=30"`
	Password     string `json:"password" binding:"required,min=8,max_bytes=72"`
}

type LoginRequest struct {
	// Username is either the email address or the mobile number.
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the only projection of a user that leaves the service.
type UserResponse struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthResponse is returned by register and login. Token is the plaintext
// secret and is never retrievable again.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type MeResponse struct {
	User UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// NewUserResponse projects a user model.
func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		MobileNumber: user.MobileNumber,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
